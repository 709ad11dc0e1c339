// Package errx 把应用错误映射为 HTTP 状态码。
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// InternalMessage 未知错误对外展示的文本。
	InternalMessage = "internal server error"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal error")
)

// AppError 携带 HTTP 状态码和可对外展示的消息。
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建 AppError
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Validation 客户端输入错误（400）。
func Validation(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrValidation
	} else {
		cause = fmt.Errorf("%w: %w", ErrValidation, cause)
	}
	return New(cause, http.StatusBadRequest, message)
}

// Internal 未预期的内部错误（500），error 字段直接返回原始错误文本。
func Internal(cause error) *AppError {
	if cause == nil {
		return New(ErrInternal, http.StatusInternalServerError, InternalMessage)
	}
	return New(fmt.Errorf("%w: %w", ErrInternal, cause), http.StatusInternalServerError, cause.Error())
}

// StatusOf 返回 err 携带的状态码，默认 500。
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf 返回 err 携带的对外消息。
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return InternalMessage
}
