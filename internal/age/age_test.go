package age

import (
	"testing"
	"time"
)

func TestSince(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		then time.Time
		want time.Duration
		ok   bool
	}{
		{name: "past", then: now.Add(-10 * time.Minute), want: 10 * time.Minute, ok: true},
		{name: "now", then: now, want: 0, ok: true},
		{name: "future clamps to zero", then: now.Add(time.Hour), want: 0, ok: true},
		{name: "zero time", then: time.Time{}, want: 0, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Since(tc.then, now)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCalendarDays(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "late evening to next morning",
			from: time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 11, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "backwards",
			from: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC),
			want: -3,
		},
		{
			name: "across daylight saving change",
			from: time.Date(2024, 3, 9, 12, 0, 0, 0, la),
			to:   time.Date(2024, 3, 11, 12, 0, 0, 0, la),
			want: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalendarDays(tc.from, tc.to); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
