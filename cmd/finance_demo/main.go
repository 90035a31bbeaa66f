package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"stockDash/internal/adapters/synthetic"
	"stockDash/internal/domain"
	"stockDash/internal/ports"
	"stockDash/internal/render"
	"stockDash/internal/strategy/indicators"
)

var chartTypes = []string{"line", "bar", "area"}

func main() {
	chart := flag.String("chart", "line", "Chart type: line, bar or area")
	points := flag.Int("points", synthetic.DefaultPoints, fmt.Sprintf("Number of data points [%d, %d]", synthetic.MinPoints, synthetic.MaxPoints))
	seed := flag.Uint64("seed", 0, "Random seed (0 draws a fresh series)")
	window := flag.Int("ma", 0, "Add a moving average column with this window (0 disables)")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	if *seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if err := run(os.Stdout, *chart, *points, *window, rng); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(out io.Writer, chart string, points, window int, rng *rand.Rand) error {
	chart = strings.ToLower(chart)
	if !slices.Contains(chartTypes, chart) {
		return fmt.Errorf("chart type %q not one of %s: %w", chart, strings.Join(chartTypes, ", "), ports.ErrInvalidInput)
	}
	if err := synthetic.ValidatePoints(points); err != nil {
		return err
	}

	series := synthetic.RandomWalk("FAKE", synthetic.DemoStart, points, rng)

	var derived []domain.DerivedSeries
	if window > 0 {
		ma, err := indicators.MovingAverage(series, window)
		if err != nil {
			return err
		}
		derived = append(derived, ma)
	}

	fmt.Fprintln(out, "Finance Dashboard")
	fmt.Fprintf(out, "Stock Prices (%s chart, %d points)\n\n", chart, points)
	return render.Table(out, series, derived...)
}
