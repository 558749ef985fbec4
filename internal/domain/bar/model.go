package bar

import "time"

// BarType determines the temporal semantics of a bar. It is fixed at creation.
type BarType string

const (
	TypeCountUp     BarType = "count-up"
	TypeCountDown   BarType = "count-down"
	TypeArrivalDate BarType = "arrival-date"
)

// Valid reports whether t is a known time-based bar type.
func (t BarType) Valid() bool {
	switch t {
	case TypeCountUp, TypeCountDown, TypeArrivalDate:
		return true
	}
	return false
}

// TimeBasedBar represents one temporal progress bar.
//
// StartDate and TargetDate are immutable once created and always satisfy
// TargetDate > StartDate. IsCompleted, IsOverdue, CurrentValue and TargetValue
// are derived state: they are recomputed by the calculator and persisted
// opportunistically, never treated as a source of truth.
type TimeBasedBar struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Type         BarType   `json:"time_based_type"`
	StartDate    time.Time `json:"start_date"`
	TargetDate   time.Time `json:"target_date"`
	CurrentValue float64   `json:"current_value"`
	TargetValue  float64   `json:"target_value"`
	IsCompleted  bool      `json:"is_completed"`
	IsOverdue    bool      `json:"is_overdue"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTimeBased reports whether the record carries enough temporal configuration
// to be run through the progress calculator.
func (b *TimeBasedBar) IsTimeBased() bool {
	return b.Type.Valid() && !b.StartDate.IsZero() && !b.TargetDate.IsZero()
}

// Duration is an elapsed or remaining span decomposed into calendar components
// plus straight-line totals. The totals are computed from the raw instants, not
// chained through the decomposition, and all fields are non-negative.
type Duration struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`

	TotalDays    int `json:"total_days"`
	TotalHours   int `json:"total_hours"`
	TotalMinutes int `json:"total_minutes"`
}

// ZeroDuration is used whenever elapsed or remaining time is clamped below a
// domain boundary (before the start instant, past the target instant).
var ZeroDuration = Duration{}

// IsZero reports whether every component of the duration is zero.
func (d Duration) IsZero() bool {
	return d == ZeroDuration
}

// ProgressCalculation is the full output of the progress calculator for one
// bar at one reference instant. It is ephemeral and never persisted directly.
type ProgressCalculation struct {
	CurrentValue  float64  `json:"current_value"`
	TargetValue   float64  `json:"target_value"`
	Percentage    float64  `json:"percentage"`
	ElapsedTime   Duration `json:"elapsed_time"`
	RemainingTime Duration `json:"remaining_time"`

	// DailyProgressRate is percent gained per day, 0 when the span is empty.
	DailyProgressRate float64 `json:"daily_progress_rate"`

	// EstimatedCompletionDate is set only for count-up bars that are not yet
	// complete, and is always the configured target date.
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`

	IsCompleted bool `json:"is_completed"`
	IsOverdue   bool `json:"is_overdue"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (c ProgressCalculation) Clone() ProgressCalculation {
	out := c
	if c.EstimatedCompletionDate != nil {
		t := *c.EstimatedCompletionDate
		out.EstimatedCompletionDate = &t
	}
	return out
}

// DerivedFields are the calculator-derived columns the lifecycle manager
// persists when completion or overdue status flips.
type DerivedFields struct {
	CurrentValue float64
	TargetValue  float64
	IsCompleted  bool
	IsOverdue    bool
	UpdatedAt    time.Time
}
