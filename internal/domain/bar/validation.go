package bar

import (
	"fmt"
	"time"
)

// ValidationCode classifies a date validation failure.
type ValidationCode string

const (
	CodeInvalidDateRange        ValidationCode = "INVALID_DATE_RANGE"
	CodeHistoricalLimitExceeded ValidationCode = "HISTORICAL_LIMIT_EXCEEDED"
	CodeFutureStartDate         ValidationCode = "FUTURE_START_DATE"
	CodeInvalidDateFormat       ValidationCode = "INVALID_DATE_FORMAT"
)

// DefaultMaxYearsInPast is the historical-date limit applied to count-up
// start dates.
const DefaultMaxYearsInPast = 10

// MaxTimeScaleYears caps the span between start and target dates.
const MaxTimeScaleYears = 50

// ValidationError is a single field-attributed validation failure.
type ValidationError struct {
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Code    ValidationCode `json:"code"`
}

// ValidationResult collects the outcome of one validation operation. Errors
// keep the order the checks ran in.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(errs ...ValidationError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

func formatError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s is not a valid date", field),
		Code:    CodeInvalidDateFormat,
	}
}

// ValidateDateRange checks that target is strictly after start. Malformed
// (zero-valued) dates fail with a format error per date and the range check
// is skipped entirely.
func ValidateDateRange(start, target time.Time) ValidationResult {
	var errs []ValidationError
	if start.IsZero() {
		errs = append(errs, formatError("startDate"))
	}
	if target.IsZero() {
		errs = append(errs, formatError("targetDate"))
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}

	if !target.After(start) {
		return invalid(ValidationError{
			Field:   "targetDate",
			Message: "target date must be after start date",
			Code:    CodeInvalidDateRange,
		})
	}
	return valid()
}

// ValidateHistoricalDate checks that date is no earlier than now minus
// maxYearsInPast years. maxYearsInPast <= 0 falls back to the default limit.
func ValidateHistoricalDate(date, now time.Time, maxYearsInPast int) ValidationResult {
	if date.IsZero() {
		return invalid(formatError("date"))
	}
	if maxYearsInPast <= 0 {
		maxYearsInPast = DefaultMaxYearsInPast
	}

	limit := now.AddDate(-maxYearsInPast, 0, 0)
	if date.Before(limit) {
		return invalid(ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("date cannot be more than %d years in the past", maxYearsInPast),
			Code:    CodeHistoricalLimitExceeded,
		})
	}
	return valid()
}

// ValidateFutureDate checks that date is strictly after the current instant.
func ValidateFutureDate(date, now time.Time) ValidationResult {
	if date.IsZero() {
		return invalid(formatError("date"))
	}
	if !date.After(now) {
		return invalid(ValidationError{
			Field:   "date",
			Message: "date must be in the future",
			Code:    CodeFutureStartDate,
		})
	}
	return valid()
}

// ValidateTimeScale checks that the span between the two dates does not
// exceed MaxTimeScaleYears whole years. The check is symmetric: argument
// order does not matter, and the boundary value itself is accepted.
func ValidateTimeScale(start, target time.Time) ValidationResult {
	var errs []ValidationError
	if start.IsZero() {
		errs = append(errs, formatError("startDate"))
	}
	if target.IsZero() {
		errs = append(errs, formatError("targetDate"))
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}

	if wholeYearsBetween(start, target) > MaxTimeScaleYears {
		return invalid(ValidationError{
			Field:   "targetDate",
			Message: fmt.Sprintf("time scale cannot exceed %d years", MaxTimeScaleYears),
			Code:    CodeInvalidDateRange,
		})
	}
	return valid()
}
