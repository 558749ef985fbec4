package bar

import "time"

// Calculate converts a bar's configured dates and type into a full progress
// calculation at the given reference instant. It is pure: identical inputs
// always produce identical output, and it never fails on well-formed dates.
// A zero-length span degrades to zero percentage and rate rather than
// dividing by zero.
func Calculate(b TimeBasedBar, now time.Time) ProgressCalculation {
	totalDays := DurationInDays(b.StartDate, b.TargetDate)
	beforeStart := now.Before(b.StartDate)
	afterTarget := now.After(b.TargetDate)

	elapsedDays := ElapsedDays(b.StartDate, now)

	elapsed := ZeroDuration
	if !beforeStart {
		elapsed = DurationBetween(b.StartDate, now)
	}

	remainingDays := totalDays - elapsedDays
	if remainingDays < 0 {
		remainingDays = 0
	}

	var remaining Duration
	switch {
	case afterTarget:
		remaining = ZeroDuration
	case beforeStart:
		// Before the window opens, the whole span is still ahead.
		remaining = DurationBetween(b.StartDate, b.TargetDate)
	default:
		remaining = DurationBetween(now, b.TargetDate)
	}

	var percentage, rate float64
	if totalDays > 0 {
		percentage = clampPercent(float64(elapsedDays) / float64(totalDays) * 100)
		rate = 100 / float64(totalDays)
	}

	// The instant comparison is authoritative; the percentage check is a
	// redundant fast path that can only disagree under extreme rounding.
	completed := !now.Before(b.TargetDate) || percentage >= 100
	overdue := b.Type == TypeArrivalDate && afterTarget

	calc := ProgressCalculation{
		TargetValue:       float64(totalDays),
		Percentage:        percentage,
		ElapsedTime:       elapsed,
		RemainingTime:     remaining,
		DailyProgressRate: rate,
		IsCompleted:       completed,
		IsOverdue:         overdue,
	}

	if b.Type == TypeCountDown {
		calc.CurrentValue = float64(remainingDays)
	} else {
		calc.CurrentValue = float64(elapsedDays)
	}

	if b.Type == TypeCountUp && !completed {
		target := b.TargetDate
		calc.EstimatedCompletionDate = &target
	}

	return calc
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
