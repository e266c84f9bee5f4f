package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"proptrackrr/web/internal/models"
)

func propertyPath(id int64) string {
	return "properties/" + strconv.FormatInt(id, 10) + "/"
}

// ListProperties returns the listings owned by brokerID
func (c *Client) ListProperties(ctx context.Context, token, brokerID string) ([]models.Property, error) {
	var out []models.Property
	query := url.Values{"broker": {brokerID}}
	if err := c.do(ctx, http.MethodGet, "properties/", query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProperty(ctx context.Context, token string, id int64, patch models.PropertyPatch) (*models.Property, error) {
	var out models.Property
	if err := c.do(ctx, http.MethodPatch, propertyPath(id), nil, token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProperty(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, propertyPath(id), nil, token, nil, nil)
}

// PublicProperties returns marketplace listings, newest first. Both a bare list and a
// paginated {"results": [...]} body are accepted.
func (c *Client) PublicProperties(ctx context.Context) ([]models.Property, error) {
	var raw json.RawMessage
	query := url.Values{"ordering": {"-created_at"}}
	if err := c.do(ctx, http.MethodGet, "public/properties/", query, "", nil, &raw); err != nil {
		return nil, err
	}
	return decodeListing(raw)
}

func decodeListing(raw json.RawMessage) ([]models.Property, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.Property{}, nil
	}
	if trimmed[0] == '[' {
		var list []models.Property
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		return list, nil
	}
	var page struct {
		Results []models.Property `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("failed to decode paginated listing: %w", err)
	}
	if page.Results == nil {
		return []models.Property{}, nil
	}
	return page.Results, nil
}
