package firewall

import (
	"errors"
	"fmt"
)

// ErrRuleNotFound signals that a rule id is absent from the store.
// Independent of provider state; handlers map it to a 404.
var ErrRuleNotFound = errors.New("firewall rule not found")

// ConfigurationError means the provider account or the target
// resource a rule's mechanism needs has not been configured. Not
// retried; mutations surface it to the caller, the reconciliation
// loop degrades affected rules to not_applicable instead.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider not configured: %s", e.Reason)
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
