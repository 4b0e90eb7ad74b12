// Package businessflow contains the business logic for the application.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Admin-related errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminInactive     = errors.New("admin account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Broadcast validation errors
	ErrInvalidBatchSize     = errors.New("batch size must be between 1 and 500")
	ErrInvalidOffset        = errors.New("offset must not be negative")
	ErrInvalidCategory      = errors.New("invalid broadcast category")
	ErrInvalidChannel       = errors.New("invalid broadcast channel")
	ErrInvalidAudienceType  = errors.New("invalid audience type")
	ErrAudienceFilterNeeded = errors.New("audience filter is required for this audience type")
	ErrEmailListEmpty       = errors.New("email list must not be empty")
	ErrEmailListTooLarge    = errors.New("email list exceeds the maximum size")
	ErrMessageTitleRequired = errors.New("message title is required")
	ErrMessageBodyRequired  = errors.New("message body is required")
	ErrInvalidBroadcastUUID = errors.New("broadcast uuid is malformed")

	// Broadcast processing errors
	ErrBroadcastTickBusy = errors.New("another worker is processing this broadcast tick")
	ErrInAppDelivery     = errors.New("in-app delivery failed")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidBatchSize(err error) bool {
	return errors.Is(err, ErrInvalidBatchSize)
}

func IsInvalidOffset(err error) bool {
	return errors.Is(err, ErrInvalidOffset)
}

func IsInvalidCategory(err error) bool {
	return errors.Is(err, ErrInvalidCategory)
}

func IsInvalidChannel(err error) bool {
	return errors.Is(err, ErrInvalidChannel)
}

func IsInvalidAudienceType(err error) bool {
	return errors.Is(err, ErrInvalidAudienceType)
}

func IsAudienceFilterNeeded(err error) bool {
	return errors.Is(err, ErrAudienceFilterNeeded)
}

func IsEmailListEmpty(err error) bool {
	return errors.Is(err, ErrEmailListEmpty)
}

func IsEmailListTooLarge(err error) bool {
	return errors.Is(err, ErrEmailListTooLarge)
}

func IsMessageTitleRequired(err error) bool {
	return errors.Is(err, ErrMessageTitleRequired)
}

func IsMessageBodyRequired(err error) bool {
	return errors.Is(err, ErrMessageBodyRequired)
}

func IsInvalidBroadcastUUID(err error) bool {
	return errors.Is(err, ErrInvalidBroadcastUUID)
}

func IsBroadcastTickBusy(err error) bool {
	return errors.Is(err, ErrBroadcastTickBusy)
}

func IsInAppDelivery(err error) bool {
	return errors.Is(err, ErrInAppDelivery)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsValidationError(err error) bool {
	return IsInvalidBatchSize(err) ||
		IsInvalidOffset(err) ||
		IsInvalidCategory(err) ||
		IsInvalidChannel(err) ||
		IsInvalidAudienceType(err) ||
		IsAudienceFilterNeeded(err) ||
		IsEmailListEmpty(err) ||
		IsEmailListTooLarge(err) ||
		IsMessageTitleRequired(err) ||
		IsMessageBodyRequired(err) ||
		IsInvalidBroadcastUUID(err)
}
