package setting

import (
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type UpdateClockOverrideRequest struct {
	Enabled bool   `json:"enabled"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM or HH:MM:SS
}

func (r *UpdateClockOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Enabled || r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Enabled || r.Time != "" {
		if _, valid := validator.IsValidClockTime(r.Time); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: ErrInvalidClockTime.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOverrideResponse struct {
	Enabled   bool   `json:"enabled"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	EngineNow string `json:"engine_now"`
}
