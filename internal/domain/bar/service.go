package bar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/barkeep/barkeep/internal/repository"
	"github.com/google/uuid"
)

// Service handles bar lifecycle logic: validated creation, progress
// recalculation, and opportunistic persistence of derived status.
type Service struct {
	bars   Repository
	clock  Clock
	logger *slog.Logger
}

// NewService creates a new bar service. A nil clock falls back to the system
// clock.
func NewService(bars Repository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{bars: bars, clock: clock, logger: logger}
}

// CreateRequest describes a bar creation request. StartDate may be omitted
// for count-down bars, whose start is implicitly the creation instant.
type CreateRequest struct {
	Title       string
	Description string
	Type        BarType
	StartDate   time.Time
	TargetDate  time.Time
}

// Create validates the configuration and persists a new time-based bar with
// an initial calculation. Validation errors are collected across all checks
// and returned together as a *ConfigError; nothing is persisted on failure.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*TimeBasedBar, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown bar type %q", ErrNotTimeBased, req.Type)
	}

	now := s.clock.Now()
	start := req.StartDate
	if req.Type == TypeCountDown && start.IsZero() {
		start = now
	}

	var errs []ValidationError

	// Format problems make the remaining checks meaningless, so they
	// short-circuit everything else.
	if start.IsZero() {
		errs = append(errs, formatError("startDate"))
	}
	if req.TargetDate.IsZero() {
		errs = append(errs, formatError("targetDate"))
	}
	if len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}

	if res := ValidateDateRange(start, req.TargetDate); !res.Valid {
		errs = append(errs, res.Errors...)
	}
	if res := ValidateTimeScale(start, req.TargetDate); !res.Valid {
		errs = append(errs, res.Errors...)
	}

	switch req.Type {
	case TypeCountUp:
		if start.After(now) {
			errs = append(errs, ValidationError{
				Field:   "startDate",
				Message: "start date cannot be in the future",
				Code:    CodeFutureStartDate,
			})
		}
		if res := ValidateHistoricalDate(start, now, DefaultMaxYearsInPast); !res.Valid {
			errs = append(errs, fieldErrors("startDate", res.Errors)...)
		}
		if res := ValidateFutureDate(req.TargetDate, now); !res.Valid {
			errs = append(errs, fieldErrors("targetDate", res.Errors)...)
		}
	case TypeCountDown:
		if res := ValidateFutureDate(req.TargetDate, now); !res.Valid {
			errs = append(errs, fieldErrors("targetDate", res.Errors)...)
		}
	case TypeArrivalDate:
		// Range and scale checks above are sufficient.
	}

	if len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}

	b := &TimeBasedBar{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		StartDate:   start,
		TargetDate:  req.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	calc := Calculate(*b, now)
	b.CurrentValue = calc.CurrentValue
	b.TargetValue = calc.TargetValue
	b.IsCompleted = calc.IsCompleted
	b.IsOverdue = calc.IsOverdue

	if err := s.bars.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("inserting bar: %w", err)
	}

	s.logger.Info("created bar", "id", b.ID, "type", b.Type)
	return b, nil
}

// Progress computes the current progress of a bar against the service clock.
// Calling it on a record without temporal configuration is a contract
// violation and returns ErrNotTimeBased.
func (s *Service) Progress(b *TimeBasedBar) (ProgressCalculation, error) {
	if b == nil || !b.IsTimeBased() {
		return ProgressCalculation{}, ErrNotTimeBased
	}
	return Calculate(*b, s.clock.Now()), nil
}

// SyncStatus recomputes a bar's progress and persists the derived fields if
// its completion or overdue status changed. When nothing changed the stored
// record is returned untouched with no write.
func (s *Service) SyncStatus(ctx context.Context, b *TimeBasedBar) (*TimeBasedBar, error) {
	calc, err := s.Progress(b)
	if err != nil {
		return nil, err
	}

	if calc.IsCompleted == b.IsCompleted && calc.IsOverdue == b.IsOverdue {
		return b, nil
	}

	updated := *b
	updated.CurrentValue = calc.CurrentValue
	updated.TargetValue = calc.TargetValue
	updated.IsCompleted = calc.IsCompleted
	updated.IsOverdue = calc.IsOverdue
	updated.UpdatedAt = s.clock.Now()

	err = s.bars.UpdateDerived(ctx, b.ID, DerivedFields{
		CurrentValue: updated.CurrentValue,
		TargetValue:  updated.TargetValue,
		IsCompleted:  updated.IsCompleted,
		IsOverdue:    updated.IsOverdue,
		UpdatedAt:    updated.UpdatedAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBarNotFound
		}
		return nil, fmt.Errorf("updating bar status: %w", err)
	}

	s.logger.Info("bar status changed", "id", b.ID,
		"completed", updated.IsCompleted, "overdue", updated.IsOverdue)
	return &updated, nil
}

// Get loads a single bar by id.
func (s *Service) Get(ctx context.Context, id string) (*TimeBasedBar, error) {
	b, err := s.bars.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBarNotFound
		}
		return nil, fmt.Errorf("loading bar: %w", err)
	}
	return b, nil
}

// Delete removes a bar by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.bars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBarNotFound
		}
		return fmt.Errorf("deleting bar: %w", err)
	}
	return nil
}

// List returns every persisted bar that carries time-based configuration.
// Time-based bars share the store with manual bars, so this is a filter over
// the full set, not a separate table.
func (s *Service) List(ctx context.Context) ([]TimeBasedBar, error) {
	all, err := s.bars.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bars: %w", err)
	}

	bars := make([]TimeBasedBar, 0, len(all))
	for _, b := range all {
		if b.IsTimeBased() {
			bars = append(bars, b)
		}
	}
	return bars, nil
}

// fieldErrors re-attributes validation errors reported against the generic
// "date" field to the concrete field being checked.
func fieldErrors(field string, errs []ValidationError) []ValidationError {
	out := make([]ValidationError, len(errs))
	for i, e := range errs {
		e.Field = field
		out[i] = e
	}
	return out
}
