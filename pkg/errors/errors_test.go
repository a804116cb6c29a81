package errors

import (
	"fmt"
	"testing"
)

func TestNew_And_Error(t *testing.T) {
	err := New(CodeInvalidRoster, "覆盖不足")
	if err.Error() != "[INVALID_ROSTER] 覆盖不足" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("底层原因")
	err := Wrap(cause, CodeScheduleInfeasible, "回溯耗尽")

	if err.Unwrap() != cause {
		t.Error("Unwrap() 应返回原始错误")
	}
}

func TestIs_And_GetCode(t *testing.T) {
	err := New(CodeInvalidPin, "pin 冲突")

	if !Is(err, CodeInvalidPin) {
		t.Error("Is() 应识别匹配的错误码")
	}
	if Is(err, CodeInternal) {
		t.Error("Is() 不应误判不匹配的错误码")
	}
	if GetCode(err) != CodeInvalidPin {
		t.Errorf("GetCode() = %v, want CodeInvalidPin", GetCode(err))
	}
	if GetCode(fmt.Errorf("普通错误")) != CodeInternal {
		t.Error("GetCode() 对非 AppError 应返回 CodeInternal")
	}
}

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidRoster, 400},
		{CodeInvalidPin, 400},
		{CodeInsufficientCoverage, 422},
		{CodeScheduleInfeasible, 422},
		{CodeInternal, 500},
	}

	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus; got != tt.want {
			t.Errorf("codeToHTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestConstructors(t *testing.T) {
	if got := GetCode(InvalidRoster("覆盖不足")); got != CodeInvalidRoster {
		t.Errorf("InvalidRoster() code = %v", got)
	}
	if got := GetCode(InvalidPin("2026-03-07", "Petrov", "city 不匹配")); got != CodeInvalidPin {
		t.Errorf("InvalidPin() code = %v", got)
	}
	if got := GetCode(InsufficientCoverage("2026-03-12", "EVENING")); got != CodeInsufficientCoverage {
		t.Errorf("InsufficientCoverage() code = %v", got)
	}
	if got := GetCode(ScheduleInfeasible("2026-03-12", "EVENING", "仅剩一人可晚班")); got != CodeScheduleInfeasible {
		t.Errorf("ScheduleInfeasible() code = %v", got)
	}
}

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("初始状态不应有错误")
	}

	ve.Add("workload_pct", "必须在 1 到 100 之间")
	if !ve.HasErrors() {
		t.Error("添加后应有错误")
	}
	if ve.Error() == "" {
		t.Error("Error() 不应为空")
	}
}
