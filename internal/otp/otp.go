// Package otp integrates with the third-party phone verification vendor.
// The service depends only on the Vendor interface: a start call that issues
// a challenge and a check call whose success proves the caller owns the
// number. Everything else about the vendor contract stays in this package.
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCodeRejected is returned by Check when the vendor rejected the code
// itself, as opposed to a transport or vendor-side failure.
var ErrCodeRejected = errors.New("otp: verification code rejected")

// Vendor drives an OTP challenge/response with an external provider.
type Vendor interface {
	// Start asks the vendor to challenge the given phone number and returns
	// the vendor's request ID.
	Start(ctx context.Context, phone string) (string, error)
	// Check forwards the user-supplied code for the given request. It returns
	// ErrCodeRejected when the vendor rejects the code and an opaque error on
	// vendor failure.
	Check(ctx context.Context, requestID, code string) error
}

// Client is an HTTP Vendor implementation for a Verify-style REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the given vendor endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type startRequest struct {
	Phone string `json:"phone"`
}

type startResponse struct {
	RequestID string `json:"request_id"`
}

type checkRequest struct {
	Code string `json:"code"`
}

// Start implements Vendor.
func (c *Client) Start(ctx context.Context, phone string) (string, error) {
	body, err := json.Marshal(startRequest{Phone: phone})
	if err != nil {
		return "", fmt.Errorf("otp: marshal start request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/verifications", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("otp: build start request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("otp: start verification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("otp: vendor rejected start (status %d)", resp.StatusCode)
	}

	var out startResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("otp: decode start response: %w", err)
	}
	if out.RequestID == "" {
		return "", errors.New("otp: vendor returned empty request id")
	}
	return out.RequestID, nil
}

// Check implements Vendor.
func (c *Client) Check(ctx context.Context, requestID, code string) error {
	body, err := json.Marshal(checkRequest{Code: code})
	if err != nil {
		return fmt.Errorf("otp: marshal check request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/verifications/%s/check", c.baseURL, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("otp: build check request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("otp: check verification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrCodeRejected
	default:
		return fmt.Errorf("otp: vendor check failed (status %d)", resp.StatusCode)
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
