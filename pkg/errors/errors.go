// Package errors 提供统一的错误定义
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess       ErrorCode = "0"
	CodeUnknown       ErrorCode = "1000"
	CodeInvalidParam  ErrorCode = "1001"
	CodeNotFound      ErrorCode = "1004"
	CodeInternalError ErrorCode = "1007"

	// 配置错误 (2xxx)
	CodeConfigError       ErrorCode = "2001"
	CodeProviderNotFound  ErrorCode = "2002"
	CodeMissingCredential ErrorCode = "2003"

	// AI 服务调用错误 (3xxx)
	CodeUnsupportedModel      ErrorCode = "3001"
	CodeAuthenticationFailure ErrorCode = "3002"
	CodeUpstreamError         ErrorCode = "3003"
	CodeTransportFailure      ErrorCode = "3004"

	// 生成结果错误 (4xxx)
	CodeMalformedOutput      ErrorCode = "4001"
	CodeSectionCountMismatch ErrorCode = "4002"

	// 外部协作方错误 (5xxx)
	CodeRenderError  ErrorCode = "5001"
	CodePublishError ErrorCode = "5002"
	CodeCacheError   ErrorCode = "5003"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	switch {
	case e.Stage != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s (stage=%s): %v", e.Code, e.Message, e.Stage, e.Err)
	case e.Stage != "":
		return fmt.Sprintf("[%s] %s (stage=%s)", e.Code, e.Message, e.Stage)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithStage 标记产生错误的生成阶段
func (e *AppError) WithStage(stage string) *AppError {
	e.Stage = stage
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeUnsupportedModel, CodeSectionCountMismatch:
		return http.StatusBadRequest
	case CodeAuthenticationFailure:
		return http.StatusUnauthorized
	case CodeNotFound, CodeProviderNotFound:
		return http.StatusNotFound
	case CodeUpstreamError, CodeTransportFailure, CodeMalformedOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsCode 检查错误链上是否存在指定错误码
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
