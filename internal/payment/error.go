package payment

import "errors"

var (
	// ErrDeclined is terminal: the provider refused the charge and a
	// retry with the same card will not succeed.
	ErrDeclined = errors.New("payment declined")

	// ErrInvalid covers malformed or unauthorized charge requests.
	ErrInvalid = errors.New("invalid payment request")
)
