package indicators

import (
	"fmt"

	"stockDash/internal/domain"
)

// CrossScanner walks two aligned derived series once, yielding crossover
// events in timestamp order. It cannot be rewound.
type CrossScanner struct {
	fast domain.DerivedSeries
	slow domain.DerivedSeries
	kind domain.SignalKind
	next int
}

// DetectGoldenCross scans for points t where fast[t-1] <= slow[t-1] and
// fast[t] > slow[t], considering only pairs where both series are defined at
// t-1 and t.
func DetectGoldenCross(fast, slow domain.DerivedSeries) (*CrossScanner, error) {
	return newCrossScanner(fast, slow, domain.GoldenCross)
}

// DetectDeathCross scans for points t where fast[t-1] >= slow[t-1] and
// fast[t] < slow[t].
func DetectDeathCross(fast, slow domain.DerivedSeries) (*CrossScanner, error) {
	return newCrossScanner(fast, slow, domain.DeathCross)
}

func newCrossScanner(fast, slow domain.DerivedSeries, kind domain.SignalKind) (*CrossScanner, error) {
	if fast.Len() != slow.Len() {
		return nil, fmt.Errorf("%w: fast has %d points, slow has %d", ErrMisalignedSeries, fast.Len(), slow.Len())
	}
	for i := range fast.Points {
		if !fast.Points[i].Time.Equal(slow.Points[i].Time) {
			return nil, fmt.Errorf("%w: timestamps differ at index %d", ErrMisalignedSeries, i)
		}
	}
	return &CrossScanner{fast: fast, slow: slow, kind: kind, next: 1}, nil
}

// Next returns the next crossover event. ok is false once the series are exhausted.
func (c *CrossScanner) Next() (event domain.SignalEvent, ok bool) {
	for c.next < c.fast.Len() {
		t := c.next
		c.next++

		prevFast, ok1 := c.fast.At(t - 1)
		prevSlow, ok2 := c.slow.At(t - 1)
		curFast, ok3 := c.fast.At(t)
		curSlow, ok4 := c.slow.At(t)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		var crossed bool
		switch c.kind {
		case domain.GoldenCross:
			crossed = prevFast <= prevSlow && curFast > curSlow
		case domain.DeathCross:
			crossed = prevFast >= prevSlow && curFast < curSlow
		}
		if crossed {
			return domain.SignalEvent{
				Time: c.fast.Points[t].Time,
				Kind: c.kind,
				Fast: curFast,
				Slow: curSlow,
			}, true
		}
	}
	return domain.SignalEvent{}, false
}

// Drain consumes the scanner and returns the remaining events.
func (c *CrossScanner) Drain() []domain.SignalEvent {
	var events []domain.SignalEvent
	for {
		e, ok := c.Next()
		if !ok {
			return events
		}
		events = append(events, e)
	}
}
