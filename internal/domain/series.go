package domain

import "time"

// Point is one value of a derived series. Valid is false when the value is
// absent (e.g. before a rolling window has filled); Value is then meaningless.
type Point struct {
	Time  time.Time
	Value float64
	Valid bool
}

// DerivedSeries is a sequence of values aligned 1:1 with the PriceSeries it
// was computed from.
type DerivedSeries struct {
	Name   string
	Points []Point
}

// NewDerivedSeries returns an all-absent series aligned to the given timestamps.
func NewDerivedSeries(name string, times []time.Time) DerivedSeries {
	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{Time: t}
	}
	return DerivedSeries{Name: name, Points: points}
}

// Len returns the number of points, absent ones included.
func (d DerivedSeries) Len() int {
	return len(d.Points)
}

// Set stores a defined value at index i.
func (d DerivedSeries) Set(i int, v float64) {
	d.Points[i].Value = v
	d.Points[i].Valid = true
}

// At returns the value at index i and whether it is defined.
func (d DerivedSeries) At(i int) (float64, bool) {
	p := d.Points[i]
	return p.Value, p.Valid
}

// Last returns the most recent defined point.
func (d DerivedSeries) Last() (Point, bool) {
	for i := len(d.Points) - 1; i >= 0; i-- {
		if d.Points[i].Valid {
			return d.Points[i], true
		}
	}
	return Point{}, false
}

// AbsentCount counts the points without a value.
func (d DerivedSeries) AbsentCount() int {
	n := 0
	for _, p := range d.Points {
		if !p.Valid {
			n++
		}
	}
	return n
}

// Values returns the defined values in order, skipping absent points.
func (d DerivedSeries) Values() []float64 {
	values := make([]float64, 0, len(d.Points))
	for _, p := range d.Points {
		if p.Valid {
			values = append(values, p.Value)
		}
	}
	return values
}
