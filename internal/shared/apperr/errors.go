package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError は対象エンティティが見つからない場合のエラー
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewNotFound はNotFoundErrorを作成します
func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound はNotFoundErrorかどうかを判定します
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidStateError は現在の状態では許可されない操作のエラー
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NewInvalidState はInvalidStateErrorを作成します
func NewInvalidState(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidState はInvalidStateErrorかどうかを判定します
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// ValidationError はリクエスト内容が不正な場合のエラー
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation はValidationErrorを作成します
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation はValidationErrorかどうかを判定します
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
