package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

var ErrNotFound = fmt.Errorf("not found")

// APIError carries the proxy's HTTP status and a single human-readable message
// extracted from the gateway error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway api status %d: %s", e.Status, e.Message)
}

// extractMessage digs the first error description out of the gateway's error
// envelope ({"errors":[{"code":..,"description":..}]}) and falls back to the
// raw body when the shape is unexpected.
func extractMessage(body []byte) string {
	var envelope struct {
		Errors []struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		if desc := strings.TrimSpace(envelope.Errors[0].Description); desc != "" {
			return desc
		}
	}
	return strings.TrimSpace(string(body))
}
