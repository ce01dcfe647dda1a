// Package service contains the business logic for phone verification,
// contact matching, the friendship graph, and notification dispatch.
package service

import (
	"context"
	"errors"
	"log/slog"

	"revlink/internal/middleware"
	"revlink/internal/models"
	"revlink/internal/observability"
	"revlink/internal/otp"
	"revlink/internal/phonehash"
	"revlink/internal/repository"

	"github.com/google/uuid"
)

// VerificationService binds a phone number to an account only after the OTP
// vendor has proven the caller possesses it. The phone hash is always computed
// server-side from the verified number; a client-supplied hash is never
// trusted.
type VerificationService struct {
	vendor   otp.Vendor
	userRepo repository.UserRepository
}

// NewVerificationService returns a new VerificationService.
func NewVerificationService(vendor otp.Vendor, userRepo repository.UserRepository) *VerificationService {
	return &VerificationService{
		vendor:   vendor,
		userRepo: userRepo,
	}
}

// Start forwards the phone number to the OTP vendor and returns the vendor's
// request ID for the challenge.
func (s *VerificationService) Start(ctx context.Context, phone string) (string, error) {
	requestID, err := s.vendor.Start(ctx, phone)
	if err != nil {
		return "", models.NewVendorError("Could not start phone verification", err)
	}
	return requestID, nil
}

// Check forwards the code to the vendor and, on success, computes the phone
// hash server-side and persists it to the caller's own profile. A previous
// hash is overwritten; no history is kept.
//
// A persistence failure after vendor success is reported as PersistenceError:
// the vendor will not reissue the same code, so the client must retry the
// (idempotent) write path rather than the whole flow.
func (s *VerificationService) Check(ctx context.Context, callerID uuid.UUID, requestID, code, phone string) error {
	if err := s.vendor.Check(ctx, requestID, code); err != nil {
		if errors.Is(err, otp.ErrCodeRejected) {
			observability.VerificationAttempts.WithLabelValues("rejected").Inc()
			return models.NewInvalidCodeError()
		}
		observability.VerificationAttempts.WithLabelValues("vendor_error").Inc()
		return models.NewVendorError("Phone verification failed", err)
	}

	hash := phonehash.Hash(phone)
	if err := s.userRepo.SetPhoneHash(ctx, callerID, hash); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return err
		}
		observability.VerificationAttempts.WithLabelValues("persistence_error").Inc()
		middleware.Logger.ErrorContext(ctx, "verified hash write failed, client must retry",
			slog.String("user_id", callerID.String()),
			slog.String("error", err.Error()),
		)
		return models.NewPersistenceError(err)
	}

	observability.VerificationAttempts.WithLabelValues("verified").Inc()
	return nil
}
