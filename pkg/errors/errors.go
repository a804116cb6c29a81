// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误码
type Code string

const (
	CodeInternal             Code = "INTERNAL_ERROR"
	CodeInvalidRoster        Code = "INVALID_ROSTER"
	CodeInvalidPin           Code = "INVALID_PIN"
	CodeInsufficientCoverage Code = "INSUFFICIENT_COVERAGE"
	CodeScheduleInfeasible   Code = "SCHEDULE_INFEASIBLE"
)

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus 错误码转HTTP状态码
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRoster, CodeInvalidPin:
		return http.StatusBadRequest
	case CodeInsufficientCoverage, CodeScheduleInfeasible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetHTTPStatus 获取HTTP状态码
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// InvalidRoster 创建人员编制不满足覆盖要求的错误
func InvalidRoster(reason string) *AppError {
	return New(CodeInvalidRoster, fmt.Sprintf("排班名单不满足覆盖要求: %s", reason))
}

// InvalidPin 创建 pin 自相矛盾的错误
func InvalidPin(date, employee, reason string) *AppError {
	return New(CodeInvalidPin, fmt.Sprintf("员工 %s 在 %s 的强制排班不合法: %s", employee, date, reason))
}

// InsufficientCoverage 创建某日某班次暂时无法填满的内部错误，由
// 回溯器捕获，不应逃逸到调用方。
func InsufficientCoverage(date string, shift string) *AppError {
	return New(CodeInsufficientCoverage, fmt.Sprintf("%s 的 %s 班次无法填满", date, shift))
}

// ScheduleInfeasible 创建回溯预算耗尽后的不可行错误
func ScheduleInfeasible(date, shift, reason string) *AppError {
	return New(CodeScheduleInfeasible, fmt.Sprintf("排班在 %s 的 %s 班次不可行: %s", date, shift, reason))
}

// ValidationErrors 验证错误集合
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError 单个验证错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "验证失败"
	}
	return fmt.Sprintf("验证失败: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add 添加验证错误
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors 检查是否有错误
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}
