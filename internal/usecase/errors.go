package usecase

import (
	"errors"
	"net/http"
)

const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodePersistence      = "PERSISTENCE_ERROR"
	CodeConversion       = "CONVERSION_ERROR"
)

// DomainError is a caller fault (4xx). Nothing has been written when one is
// returned from the ingestion path.
type DomainError struct {
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError is a store or downstream failure (5xx).
type TechnicalError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func NewValidationError(details any) *DomainError {
	return &DomainError{Code: CodeValidation, Message: "Missing or invalid required fields", Details: details}
}

func NewPersistenceError(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodePersistence, Message: message, Err: err}
}

func NewConversionError(rawLeadID string, err error) *TechnicalError {
	return &TechnicalError{
		Code:    CodeConversion,
		Message: "Lead captured but conversion failed",
		Details: map[string]string{"raw_lead_id": rawLeadID},
		Err:     err,
	}
}

// HTTPStatus maps an error produced by this package to a response status.
func HTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeMethodNotAllowed:
			return http.StatusMethodNotAllowed
		case CodePayloadTooLarge:
			return http.StatusRequestEntityTooLarge
		case CodeNotFound:
			return http.StatusNotFound
		default:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
