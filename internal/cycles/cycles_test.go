package cycles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify_EarlyOpenStart(t *testing.T) {
	c := NewClassifier(Default())

	for _, d := range []*time.Time{
		day(2009, 1, 3),
		day(2011, 6, 15),
		day(2012, 12, 31),
	} {
		cycle := c.Classify(d)
		assert.Equal(t, TypeEarly, cycle.Type, "date %v", d)
		assert.Equal(t, "Pre-2013 Early", cycle.Name)
	}
}

func TestClassify_BoundedRange(t *testing.T) {
	c := NewClassifier(Default())

	cycle := c.Classify(day(2013, 6, 1))
	assert.Equal(t, TypeBull, cycle.Type)
	assert.Equal(t, "2013 Bull", cycle.Name)
}

func TestClassify_BoundaryBelongsToNextRange(t *testing.T) {
	c := NewClassifier(Default())

	// A range's end date classifies into the range it starts, not the one
	// it ends.
	start := c.Classify(day(2013, 1, 1))
	assert.Equal(t, "2013 Bull", start.Name)

	end := c.Classify(day(2013, 12, 1))
	assert.Equal(t, TypeBear, end.Type)
	assert.Equal(t, "2014-2015 Bear", end.Name)
}

func TestClassify_OpenEnd(t *testing.T) {
	c := NewClassifier(Default())

	cycle := c.Classify(day(2030, 1, 1))
	assert.Equal(t, TypeBear, cycle.Type)
	assert.Equal(t, "2025-2026 Bear", cycle.Name)
}

func TestClassify_NilDate(t *testing.T) {
	c := NewClassifier(Default())

	cycle := c.Classify(nil)
	assert.Equal(t, TypeUnknown, cycle.Type)
	assert.Equal(t, "Unknown", cycle.Name)
}

func TestClassify_FullCoverage(t *testing.T) {
	c := NewClassifier(Default())

	// Walk one day at a time across the whole table span: every date must
	// match exactly one named range.
	d := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	limit := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	for d.Before(limit) {
		cycle := c.Classify(&d)
		require.NotEqual(t, TypeUnknown, cycle.Type, "gap at %v", d)
		d = d.AddDate(0, 0, 1)
	}
}

func TestShift_EquivalentToShiftingDates(t *testing.T) {
	// Shifting every query date backward by d must classify identically to
	// shifting all boundaries forward by d. This is what the sensitivity
	// analysis relies on; it must hold across all three range topologies
	// (open-start, bounded, open-end).
	base := NewClassifier(Default())

	for _, shiftDays := range []int{-60, -30, 30, 60} {
		shift := time.Duration(shiftDays) * 24 * time.Hour
		shifted := NewClassifier(Shift(Default(), shift))

		d := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
		limit := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		for d.Before(limit) {
			moved := d.Add(-shift)
			require.Equal(t, base.Classify(&moved).Name, shifted.Classify(&d).Name,
				"shift %d days at %v", shiftDays, d)
			d = d.AddDate(0, 0, 7)
		}
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a[0].Name = "mutated"
	assert.Equal(t, "Pre-2013 Early", b[0].Name)
}

func TestDump_ISODatesAndOpenBounds(t *testing.T) {
	entries := Dump(Default())
	require.Len(t, entries, 12)

	assert.Nil(t, entries[0].Start)
	require.NotNil(t, entries[0].End)
	assert.Equal(t, "2013-01-01", *entries[0].End)

	last := entries[len(entries)-1]
	require.NotNil(t, last.Start)
	assert.Equal(t, "2025-11-01", *last.Start)
	assert.Nil(t, last.End)
}
