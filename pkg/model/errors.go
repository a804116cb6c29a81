package model

import "errors"

var (
	ErrMutuallyExclusiveShiftRestriction = errors.New("model: morning_only and evening_only cannot both be true")
	ErrAlwaysOnDutyNotMoscow             = errors.New("model: always_on_duty requires city MOSCOW")
	ErrDutyEmployeeIncompatible          = errors.New("model: duty employee is not compatible with any mandatory shift")
)
