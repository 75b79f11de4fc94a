package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is one calendar month, the unit budgets and analytics work in.
type Period struct {
	Year  int
	Month int
}

// Format returns the period as "2025-01".
func (p Period) Format() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) String() string {
	return p.Format()
}

// Parse parses "2025-01" into a Period.
func Parse(s string) (Period, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid year in period %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid month in period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month out of range in period %q", s)
	}

	return Period{Year: year, Month: month}, nil
}

// FromTime returns the period containing t.
func FromTime(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Current returns the period containing now.
func Current() Period {
	return FromTime(time.Now())
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Add returns the period n months later (n may be negative).
func (p Period) Add(n int) Period {
	months := p.Year*12 + (p.Month - 1) + n
	y, m := months/12, months%12
	if m < 0 {
		y--
		m += 12
	}
	return Period{Year: y, Month: m + 1}
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the next period, so ranges are
// [Start, End).
func (p Period) End() time.Time {
	n := p.Next()
	return time.Date(n.Year, time.Month(n.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// Range returns the n periods ending at p, oldest first.
func Range(p Period, n int) []Period {
	if n <= 0 {
		return nil
	}
	out := make([]Period, n)
	for i := 0; i < n; i++ {
		out[i] = p.Add(i - n + 1)
	}
	return out
}
