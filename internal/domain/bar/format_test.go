package bar_test

import (
	"testing"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    bar.Duration
		want string
	}{
		{"zero", bar.Duration{}, "0 minutes"},
		{"single part", bar.Duration{Days: 3}, "3 days"},
		{"two parts", bar.Duration{Years: 2, Days: 4}, "2 years and 4 days"},
		{"three parts oxford", bar.Duration{Years: 2, Months: 3, Days: 5}, "2 years, 3 months, and 5 days"},
		{"singular forms", bar.Duration{Years: 1, Months: 1, Days: 1}, "1 year, 1 month, and 1 day"},
		{"small scale keeps hours and minutes", bar.Duration{Days: 15, Hours: 6, Minutes: 30}, "15 days, 6 hours, and 30 minutes"},
		{"months suppress hours and minutes", bar.Duration{Months: 2, Days: 1, Hours: 5, Minutes: 9}, "2 months and 1 day"},
		{"years suppress hours and minutes", bar.Duration{Years: 1, Hours: 23, Minutes: 59}, "1 year"},
		{"minutes only", bar.Duration{Minutes: 45}, "45 minutes"},
		{"one minute", bar.Duration{Minutes: 1}, "1 minute"},
		{"hours and minutes", bar.Duration{Hours: 2, Minutes: 5}, "2 hours and 5 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, bar.FormatDuration(tt.d))
		})
	}
}
