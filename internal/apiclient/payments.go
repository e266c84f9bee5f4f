package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"proptrackrr/web/internal/models"
)

// CheckUnlock reports whether phone already unlocked the property and the wallet balance
func (c *Client) CheckUnlock(ctx context.Context, phone string, propertyID int64) (*models.UnlockStatus, error) {
	var out models.UnlockStatus
	query := url.Values{
		"phone":       {phone},
		"property_id": {strconv.FormatInt(propertyID, 10)},
	}
	if err := c.do(ctx, http.MethodGet, "payments/check-unlock/", query, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unlock reveals the broker contact. The backend charges one credit unless the pair was
// already unlocked.
func (c *Client) Unlock(ctx context.Context, phone string, propertyID int64) (*models.UnlockResult, error) {
	var out models.UnlockResult
	req := models.UnlockRequest{Phone: phone, PropertyID: propertyID}
	if err := c.do(ctx, http.MethodPost, "payments/unlock/", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, phone string, amount int) (*models.Order, error) {
	var out models.Order
	req := models.OrderRequest{Phone: phone, Amount: amount}
	if err := c.do(ctx, http.MethodPost, "payments/create-order/", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, req models.PaymentVerification) (*models.VerifyResult, error) {
	var out models.VerifyResult
	if err := c.do(ctx, http.MethodPost, "payments/verify/", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Wallet(ctx context.Context, phone string) (*models.Wallet, error) {
	var out models.Wallet
	query := url.Values{"phone": {phone}}
	if err := c.do(ctx, http.MethodGet, "wallet/", query, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
