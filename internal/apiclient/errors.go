package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"proptrackrr/web/internal/models"
)

// GenericFailure is shown for transport errors and unreadable responses
const GenericFailure = "Something went wrong. Please try again."

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status     int
	Message    string
	NeedsSetup bool
	BrokerID   string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// errorBody covers the error shapes the backend produces
type errorBody struct {
	Error      string        `json:"error"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail"`
	NeedsSetup bool          `json:"needs_setup"`
	BrokerID   models.Number `json:"broker_id"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	apiErr.NeedsSetup = eb.NeedsSetup
	apiErr.BrokerID = eb.BrokerID.String()
	switch {
	case eb.Error != "":
		apiErr.Message = eb.Error
	case eb.Message != "":
		apiErr.Message = eb.Message
	case eb.Detail != "":
		apiErr.Message = eb.Detail
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage picks the message to show for err: the server's own text for business
// errors, fallback when the server gave none, and the generic text for transport failures.
func UserMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return fallback
	}
	if fallback != "" {
		return fallback
	}
	return GenericFailure
}
