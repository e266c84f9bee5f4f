package apiclient

import (
	"context"
	"net/http"

	"proptrackrr/web/internal/models"
)

// Login authenticates a broker. A broker without a password gets an *APIError with NeedsSetup set.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "brokers/login/", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "brokers/register/", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to send a reset message over WhatsApp
func (c *Client) ForgotPassword(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "brokers/forgot-password/", nil, "", models.ForgotPasswordRequest{Phone: phone}, nil)
}
