package bar

import (
	"context"
	"time"
)

// Repository provides persistence for bars. The service treats it as the
// single source of truth for persisted fields and never caches records.
type Repository interface {
	Insert(ctx context.Context, b *TimeBasedBar) error
	Get(ctx context.Context, id string) (*TimeBasedBar, error)
	UpdateDerived(ctx context.Context, id string, fields DerivedFields) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]TimeBasedBar, error)
}

// Clock supplies the reference instant for calculations, injectable so tests
// can pin time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the real-time clock.
var SystemClock Clock = ClockFunc(time.Now)
