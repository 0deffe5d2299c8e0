package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNegativeAmount   = errors.New("amount must be non-negative")
	ErrMissingField     = errors.New("required invoice field is missing")
	ErrInvalidStatus    = errors.New("invalid invoice status")
	ErrUnknownColumn    = errors.New("unknown column key")
	ErrStoreUnavailable = errors.New("invoice store request failed")
	ErrExtractionFailed = errors.New("could not extract data from the invoice image")
)
