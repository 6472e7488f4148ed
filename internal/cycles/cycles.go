package cycles

import "time"

// CycleType is the coarse market-regime label attached to a cycle.
type CycleType string

const (
	TypeEarly   CycleType = "Early"
	TypeBull    CycleType = "Bull"
	TypeBear    CycleType = "Bear"
	TypeNeutral CycleType = "Neutral"
	TypeUnknown CycleType = "Unknown"
)

// Cycle is one named date range of the market-cycle table. Start/End are
// UTC-midnight dates; nil Start means open at the beginning of time, nil End
// means open-ended. Interior ranges are half-open [Start, End).
type Cycle struct {
	Name  string
	Start *time.Time
	End   *time.Time
	Type  CycleType
}

// Unknown is the sentinel returned for absent or unmatched dates.
var Unknown = Cycle{Name: "Unknown", Type: TypeUnknown}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Default returns the fixed historical cycle table. Callers get a fresh
// slice each time so no run can mutate another's table.
func Default() []Cycle {
	return []Cycle{
		{Name: "Pre-2013 Early", Start: nil, End: date(2013, 1, 1), Type: TypeEarly},
		{Name: "2013 Bull", Start: date(2013, 1, 1), End: date(2013, 12, 1), Type: TypeBull},
		{Name: "2014-2015 Bear", Start: date(2013, 12, 1), End: date(2015, 8, 1), Type: TypeBear},
		{Name: "2015-2016 Recovery", Start: date(2015, 8, 1), End: date(2016, 1, 1), Type: TypeNeutral},
		{Name: "2016-2017 Bull", Start: date(2016, 1, 1), End: date(2018, 1, 1), Type: TypeBull},
		{Name: "2018-2019 Bear", Start: date(2018, 1, 1), End: date(2018, 12, 1), Type: TypeBear},
		{Name: "2019-2020 Recovery", Start: date(2018, 12, 1), End: date(2020, 3, 1), Type: TypeNeutral},
		{Name: "2020-2021 Bull", Start: date(2020, 3, 1), End: date(2021, 11, 1), Type: TypeBull},
		{Name: "2022 Bear", Start: date(2021, 11, 1), End: date(2022, 11, 1), Type: TypeBear},
		{Name: "2023 Recovery", Start: date(2022, 11, 1), End: date(2023, 10, 1), Type: TypeNeutral},
		{Name: "2023-2025 Bull", Start: date(2023, 10, 1), End: date(2025, 11, 1), Type: TypeBull},
		{Name: "2025-2026 Bear", Start: date(2025, 11, 1), End: nil, Type: TypeBear},
	}
}

// Shift returns a copy of the table with every boundary translated by d.
// Open bounds stay open.
func Shift(table []Cycle, d time.Duration) []Cycle {
	out := make([]Cycle, len(table))
	for i, c := range table {
		out[i] = c
		if c.Start != nil {
			s := c.Start.Add(d)
			out[i].Start = &s
		}
		if c.End != nil {
			e := c.End.Add(d)
			out[i].End = &e
		}
	}
	return out
}

// TableEntry is the serializable form of one cycle, with ISO boundary dates
// or null for open bounds.
type TableEntry struct {
	Name  string  `json:"name"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Type  string  `json:"type"`
}

// Dump converts a cycle table to its export shape.
func Dump(table []Cycle) []TableEntry {
	iso := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format("2006-01-02")
		return &s
	}
	out := make([]TableEntry, len(table))
	for i, c := range table {
		out[i] = TableEntry{Name: c.Name, Start: iso(c.Start), End: iso(c.End), Type: string(c.Type)}
	}
	return out
}

// Classifier maps calendar dates to market cycles. It holds its table as an
// immutable value; construct one per table variant instead of mutating.
type Classifier struct {
	table []Cycle
}

// NewClassifier builds a classifier over the given ordered cycle table.
func NewClassifier(table []Cycle) *Classifier {
	return &Classifier{table: table}
}

// Table returns the classifier's cycle table.
func (c *Classifier) Table() []Cycle {
	return c.table
}

// Classify returns the first cycle whose range contains t, using half-open
// [start, end) semantics for bounded ranges, < end for the open-start range
// and >= start for the open-end range. A nil date, or a date no range
// matches, classifies as Unknown.
func (c *Classifier) Classify(t *time.Time) Cycle {
	if t == nil {
		return Unknown
	}
	d := t.UTC().Truncate(24 * time.Hour)
	for _, cy := range c.table {
		switch {
		case cy.Start == nil && cy.End != nil:
			if d.Before(*cy.End) {
				return cy
			}
		case cy.Start != nil && cy.End == nil:
			if !d.Before(*cy.Start) {
				return cy
			}
		case cy.Start != nil && cy.End != nil:
			if !d.Before(*cy.Start) && d.Before(*cy.End) {
				return cy
			}
		}
	}
	return Unknown
}

// CycleType returns just the type label for a launch date.
func (c *Classifier) CycleType(t *time.Time) string {
	return string(c.Classify(t).Type)
}

// CycleName returns just the cycle name for a launch date.
func (c *Classifier) CycleName(t *time.Time) string {
	return c.Classify(t).Name
}
