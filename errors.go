package ouh

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable numeric code the host reports for a failed
// invocation. Host codes live below 100, program codes start at 6000.
type ErrorCode uint32

// Host codes.
const (
	CodeOK                           ErrorCode = 0
	CodeEncodingError                ErrorCode = 1
	CodeInvalidSignature             ErrorCode = 2
	CodeUnknownInstruction           ErrorCode = 3
	CodeAccountCountMismatch         ErrorCode = 4
	CodeConstraintSeeds              ErrorCode = 5
	CodeAccountAlreadyInUse          ErrorCode = 6
	CodeAccountDiscriminatorMismatch ErrorCode = 7
	CodeInternal                     ErrorCode = 99
)

// Program codes, in declaration order.
const (
	CodeInvalidPhoneFormat ErrorCode = 6000 + iota
	CodeTransactionLimitOutOfBounds
	CodeContractPaused
	CodeUserSuspended
	CodeInsufficientBalance
	CodeInvalidPin
	CodeArithmeticOverflow
	CodeInvalidTransition
	CodeNotFound
	CodeUnauthorized
	CodeInvalidInput
)

// Error is a coded invocation failure. Two errors are equal under
// errors.Is when their codes match, so callers compare against the
// sentinels below even when the message carries extra detail.
type Error struct {
	Code    ErrorCode
	Name    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Withf returns a copy of e with a formatted message appended.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{
		Code:    e.Code,
		Name:    e.Name,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

var (
	ErrEncoding                     = &Error{CodeEncodingError, "EncodingError", "malformed transaction"}
	ErrInvalidSignature             = &Error{CodeInvalidSignature, "InvalidSignature", "signature verification failed"}
	ErrUnknownInstruction           = &Error{CodeUnknownInstruction, "UnknownInstruction", "unknown instruction"}
	ErrAccountCountMismatch         = &Error{CodeAccountCountMismatch, "AccountCountMismatch", "wrong number of accounts"}
	ErrConstraintSeeds              = &Error{CodeConstraintSeeds, "ConstraintSeeds", "account address does not match its derivation"}
	ErrAccountAlreadyInUse          = &Error{CodeAccountAlreadyInUse, "AccountAlreadyInUse", "account address already in use"}
	ErrAccountDiscriminatorMismatch = &Error{CodeAccountDiscriminatorMismatch, "AccountDiscriminatorMismatch", "account holds a different record type"}

	ErrInvalidPhoneFormat          = &Error{CodeInvalidPhoneFormat, "InvalidPhoneFormat", "invalid phone number format"}
	ErrTransactionLimitOutOfBounds = &Error{CodeTransactionLimitOutOfBounds, "TransactionLimitOutOfBounds", "transaction amount outside configured limits"}
	ErrContractPaused              = &Error{CodeContractPaused, "ContractPaused", "contract is paused"}
	ErrUserSuspended               = &Error{CodeUserSuspended, "UserSuspended", "user is suspended"}
	ErrInsufficientBalance         = &Error{CodeInsufficientBalance, "InsufficientBalance", "insufficient balance"}
	ErrInvalidPin                  = &Error{CodeInvalidPin, "InvalidPin", "invalid pin"}
	ErrArithmeticOverflow          = &Error{CodeArithmeticOverflow, "ArithmeticOverflow", "arithmetic overflow"}
	ErrInvalidTransition           = &Error{CodeInvalidTransition, "InvalidTransition", "invalid status transition"}
	ErrNotFound                    = &Error{CodeNotFound, "NotFound", "record not found"}
	ErrUnauthorized                = &Error{CodeUnauthorized, "Unauthorized", "signer is not authorized"}
	ErrInvalidInput                = &Error{CodeInvalidInput, "InvalidInput", "invalid input"}
)

// CodeOf extracts the code from err. Nil maps to CodeOK and errors
// without a code map to CodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HaltError signals that the application found committed state it
// cannot interpret and requests an immediate halt.
//
// When the engine receives a HaltError from ExecuteBlock, it must
// stop, log the error, and not proceed to Commit.
type HaltError struct {
	Reason string
	Height uint64
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("HALT at height %d: %s", e.Height, e.Reason)
}

// NewHaltError creates a new HaltError.
func NewHaltError(height uint64, reason string) *HaltError {
	return &HaltError{Height: height, Reason: reason}
}

// IsHalt checks whether an error is a HaltError and returns it.
func IsHalt(err error) (*HaltError, bool) {
	var h *HaltError
	if errors.As(err, &h) {
		return h, true
	}
	return nil, false
}
