package setting

import "errors"

var (
	ErrInvalidClockTime = errors.New("clock override time must be in HH:MM or HH:MM:SS format")
)
