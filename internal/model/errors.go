package model

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the two deterministic input-validation failures
// surfaced to callers. Anything else is a defect, not an input error.
type ErrorKind string

const (
	KindTariffInvalid  ErrorKind = "tariff_invalid"
	KindProfileInvalid ErrorKind = "load_profile_invalid"
)

// InputError is a coded, caller-visible validation failure. The message is
// expected to be displayed verbatim by the UI layer; there is no retry.
type InputError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *InputError) Unwrap() error { return e.Err }

// TariffInvalid builds a tariff-invalid error.
func TariffInvalid(code, format string, args ...any) *InputError {
	return &InputError{Kind: KindTariffInvalid, Code: code, Message: fmt.Sprintf(format, args...)}
}

// ProfileInvalid builds a load-profile-invalid error.
func ProfileInvalid(code, format string, args ...any) *InputError {
	return &InputError{Kind: KindProfileInvalid, Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapTariffInvalid wraps an underlying error (unreadable file, bad JSON).
func WrapTariffInvalid(code, msg string, err error) *InputError {
	return &InputError{Kind: KindTariffInvalid, Code: code, Message: msg, Err: err}
}

// WrapProfileInvalid wraps an underlying error (unreadable file, bad CSV).
func WrapProfileInvalid(code, msg string, err error) *InputError {
	return &InputError{Kind: KindProfileInvalid, Code: code, Message: msg, Err: err}
}

// IsKind reports whether err is an InputError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Kind == kind
}
