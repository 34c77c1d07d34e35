package handlers

import "github.com/xavierca1/ligue-crm/internal/usecase"

func domainError(code, message string) *usecase.DomainError {
	return &usecase.DomainError{Code: code, Message: message}
}

var (
	errUnauthorized     = domainError(usecase.CodeUnauthorized, "Unauthorized")
	errMethodNotAllowed = domainError(usecase.CodeMethodNotAllowed, "Method not allowed")
	errInvalidPayload   = domainError(usecase.CodeInvalidPayload, "Invalid JSON payload")
	errPayloadTooLarge  = domainError(usecase.CodePayloadTooLarge, "Payload too large")
)
