package provider

import (
	"errors"
	"fmt"
)

// Error codes returned in provider error payloads. Only the two the
// gateway treats as benign get symbolic names.
const (
	CodeDuplicate = "DuplicateRule"
	CodeNotFound  = "NotFound"
)

// APIError is a failure reported by the provider API. The code comes
// from the response payload when present, otherwise it is derived
// from the HTTP status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider: status %d: %s", e.StatusCode, e.Message)
}

// IsDuplicate reports whether err is the provider saying the rule
// already exists. Authorize calls treat this as success.
func IsDuplicate(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeDuplicate
}

// IsNotFound reports whether err is the provider saying the rule or
// entry is already absent. Revoke and delete calls treat this as
// success.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNotFound || apiErr.StatusCode == 404
}
