package flight

import (
	"fmt"
	"strings"
)

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrorCodeProvider        ErrorCode = "PROVIDER_ERROR"
	ErrorCodeNoResults       ErrorCode = "NO_RESULTS"
	ErrorCodeConfiguration   ErrorCode = "CONFIGURATION_ERROR"
	ErrorCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

// Field paths reported in validation errors.
const (
	FieldOrigin        = "slices[0].origin"
	FieldDestination   = "slices[0].destination"
	FieldDepartureDate = "slices[0].departure_date"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a search submission.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid search: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field has at least one error.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type SearchErrorKind string

const (
	KindProviderError SearchErrorKind = "provider_error"
	KindNoResults     SearchErrorKind = "no_results"
)

// SearchError is a failed or empty provider search.
// NoResults is informational; ProviderError means the upstream call failed.
type SearchError struct {
	Kind    SearchErrorKind       `json:"kind"`
	Message string                `json:"message"`
	Details []UpstreamErrorDetail `json:"details,omitempty"`
}

func (e *SearchError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// ConfigurationError means the provider cannot be called at all, e.g. no API key.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type UpstreamErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

// UpstreamError is returned by provider clients when the offer search call fails.
type UpstreamError struct {
	StatusCode int
	Message    string
	Details    []UpstreamErrorDetail
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
