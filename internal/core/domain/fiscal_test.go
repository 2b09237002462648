package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFiscalYear_ContainsDate(t *testing.T) {
	year := domain.FiscalYear{
		StartDate: date(2025, time.January, 1),
		EndDate:   date(2025, time.December, 31),
	}

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{name: "first day is inside", d: date(2025, time.January, 1), want: true},
		{name: "last day is inside", d: date(2025, time.December, 31), want: true},
		{name: "mid-year date", d: date(2025, time.June, 15), want: true},
		{name: "day before start", d: date(2024, time.December, 31), want: false},
		{name: "day after end", d: date(2026, time.January, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, year.ContainsDate(tt.d))
		})
	}
}

func TestFiscalYear_Overlaps(t *testing.T) {
	year := domain.FiscalYear{
		StartDate: date(2025, time.January, 1),
		EndDate:   date(2025, time.December, 31),
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "identical range", start: date(2025, time.January, 1), end: date(2025, time.December, 31), want: true},
		{name: "straddles the start", start: date(2024, time.July, 1), end: date(2025, time.June, 30), want: true},
		{name: "straddles the end", start: date(2025, time.July, 1), end: date(2026, time.June, 30), want: true},
		{name: "fully inside", start: date(2025, time.March, 1), end: date(2025, time.March, 31), want: true},
		{name: "touching at the boundary counts", start: date(2025, time.December, 31), end: date(2026, time.December, 30), want: true},
		{name: "entirely before", start: date(2024, time.January, 1), end: date(2024, time.December, 31), want: false},
		{name: "entirely after", start: date(2026, time.January, 1), end: date(2026, time.December, 31), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, year.Overlaps(tt.start, tt.end))
		})
	}
}

func TestAccountingPeriod_ContainsDate(t *testing.T) {
	period := domain.AccountingPeriod{
		PeriodNumber: 2,
		StartDate:    date(2025, time.February, 1),
		EndDate:      date(2025, time.February, 28),
	}

	assert.True(t, period.ContainsDate(date(2025, time.February, 1)))
	assert.True(t, period.ContainsDate(date(2025, time.February, 28)))
	assert.False(t, period.ContainsDate(date(2025, time.January, 31)))
	assert.False(t, period.ContainsDate(date(2025, time.March, 1)))
}

func TestAccountingPeriod_Overlaps(t *testing.T) {
	february := domain.AccountingPeriod{
		StartDate: date(2025, time.February, 1),
		EndDate:   date(2025, time.February, 28),
	}

	// Adjacent months share no days, so they do not overlap.
	assert.False(t, february.Overlaps(date(2025, time.January, 1), date(2025, time.January, 31)))
	assert.False(t, february.Overlaps(date(2025, time.March, 1), date(2025, time.March, 31)))
	assert.True(t, february.Overlaps(date(2025, time.February, 28), date(2025, time.March, 31)))
	assert.True(t, february.Overlaps(date(2025, time.January, 15), date(2025, time.February, 1)))
}
