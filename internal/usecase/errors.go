package usecase

// DomainError is a business-rule rejection the caller can act on
// (validation failure, unknown account, duplicate submission).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (database, queue, SMTP).
// The user sees a generic message and may simply retry.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// ErrInvalidCredentials is deliberately generic: the login flow never
// distinguishes "unknown user" from "wrong password".
var ErrInvalidCredentials = &DomainError{
	Code:    "INVALID_CREDENTIALS",
	Message: "invalid username or password",
}
