package service

import (
	"context"
	"errors"
	"testing"

	"revlink/internal/models"
	"revlink/internal/otp"
	"revlink/internal/phonehash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationStart(t *testing.T) {
	vendor := &vendorStub{
		startFn: func(ctx context.Context, phone string) (string, error) {
			assert.Equal(t, "+1 555 123 4567", phone)
			return "req-42", nil
		},
	}
	svc := NewVerificationService(vendor, &userRepoStub{})

	requestID, err := svc.Start(context.Background(), "+1 555 123 4567")

	require.NoError(t, err)
	assert.Equal(t, "req-42", requestID)
}

func TestVerificationStartVendorDown(t *testing.T) {
	vendor := &vendorStub{
		startFn: func(ctx context.Context, phone string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	svc := NewVerificationService(vendor, &userRepoStub{})

	_, err := svc.Start(context.Background(), "5551234567")

	assertAppErrorCode(t, err, models.CodeVendorError)
}

func TestVerificationCheckBindsServerComputedHash(t *testing.T) {
	callerID := uuid.New()
	var boundID uuid.UUID
	var boundHash string

	vendor := &vendorStub{
		checkFn: func(ctx context.Context, requestID, code string) error {
			assert.Equal(t, "req-42", requestID)
			assert.Equal(t, "123456", code)
			return nil
		},
	}
	userRepo := &userRepoStub{
		setPhoneHashFn: func(ctx context.Context, id uuid.UUID, hash string) error {
			boundID = id
			boundHash = hash
			return nil
		},
	}
	svc := NewVerificationService(vendor, userRepo)

	err := svc.Check(context.Background(), callerID, "req-42", "123456", "+1 (555) 123-4567")

	require.NoError(t, err)
	assert.Equal(t, callerID, boundID)
	// The stored hash is computed here from the verified number, never taken
	// from the client, and formatting variants collapse to the same value.
	assert.Equal(t, phonehash.Hash("5551234567"), boundHash)
}

func TestVerificationCheckRejectedCode(t *testing.T) {
	vendor := &vendorStub{
		checkFn: func(ctx context.Context, requestID, code string) error {
			return otp.ErrCodeRejected
		},
	}
	wroteHash := false
	userRepo := &userRepoStub{
		setPhoneHashFn: func(ctx context.Context, id uuid.UUID, hash string) error {
			wroteHash = true
			return nil
		},
	}
	svc := NewVerificationService(vendor, userRepo)

	err := svc.Check(context.Background(), uuid.New(), "req-42", "000000", "5551234567")

	assertAppErrorCode(t, err, models.CodeInvalidCode)
	assert.False(t, wroteHash)
}

func TestVerificationCheckVendorDown(t *testing.T) {
	vendor := &vendorStub{
		checkFn: func(ctx context.Context, requestID, code string) error {
			return errors.New("gateway timeout")
		},
	}
	svc := NewVerificationService(vendor, &userRepoStub{})

	err := svc.Check(context.Background(), uuid.New(), "req-42", "123456", "5551234567")

	assertAppErrorCode(t, err, models.CodeVendorError)
}

func TestVerificationCheckPersistenceFailure(t *testing.T) {
	// The vendor accepted the code but the hash write failed. The caller gets
	// PERSISTENCE_ERROR so the client retries the write path, not the whole
	// OTP flow.
	vendor := &vendorStub{
		checkFn: func(ctx context.Context, requestID, code string) error {
			return nil
		},
	}
	userRepo := &userRepoStub{
		setPhoneHashFn: func(ctx context.Context, id uuid.UUID, hash string) error {
			return models.NewInternalError(errors.New("connection reset"))
		},
	}
	svc := NewVerificationService(vendor, userRepo)

	err := svc.Check(context.Background(), uuid.New(), "req-42", "123456", "5551234567")

	assertAppErrorCode(t, err, models.CodePersistence)
}

func TestVerificationCheckUnknownUser(t *testing.T) {
	vendor := &vendorStub{
		checkFn: func(ctx context.Context, requestID, code string) error {
			return nil
		},
	}
	callerID := uuid.New()
	userRepo := &userRepoStub{
		setPhoneHashFn: func(ctx context.Context, id uuid.UUID, hash string) error {
			return models.NewNotFoundError("User", id)
		},
	}
	svc := NewVerificationService(vendor, userRepo)

	err := svc.Check(context.Background(), callerID, "req-42", "123456", "5551234567")

	// A deleted account surfaces as NotFound, not as a retryable write error.
	assertAppErrorCode(t, err, models.CodeNotFound)
}
