package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockDash/internal/domain"
)

// BarHeader is the column layout of bar CSV files.
var BarHeader = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

// WriteBars writes the series as CSV rows with a header.
func WriteBars(w io.Writer, series ...*domain.PriceSeries) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(BarHeader); err != nil {
		return err
	}
	for _, s := range series {
		for _, b := range s.Bars {
			err := writer.Write([]string{
				b.Time.UTC().Format(time.RFC3339),
				s.Symbol,
				strconv.FormatFloat(b.Open, 'f', -1, 64),
				strconv.FormatFloat(b.High, 'f', -1, 64),
				strconv.FormatFloat(b.Low, 'f', -1, 64),
				strconv.FormatFloat(b.Close, 'f', -1, 64),
				strconv.FormatFloat(b.Volume, 'f', -1, 64),
			})
			if err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBarsToCSV writes one series to filename, creating parent directories.
func WriteBarsToCSV(series *domain.PriceSeries, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteBars(file, series)
}

// ReadBars parses bar CSV rows grouped by symbol. Rows are sorted by time;
// duplicate timestamps for one symbol are rejected.
func ReadBars(r io.Reader) (map[string]*domain.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(BarHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return map[string]*domain.PriceSeries{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(BarHeader, ",") {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	out := make(map[string]*domain.PriceSeries)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bar, err := parseBar(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[1]))
		s, ok := out[symbol]
		if !ok {
			s = &domain.PriceSeries{Symbol: symbol, Interval: "1d"}
			out[symbol] = s
		}
		s.Bars = append(s.Bars, bar)
	}

	for _, s := range out {
		sort.SliceStable(s.Bars, func(i, j int) bool { return s.Bars[i].Time.Before(s.Bars[j].Time) })
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadBarsFromCSV reads a bar file written by WriteBarsToCSV.
func ReadBarsFromCSV(filename string) (map[string]*domain.PriceSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadBars(file)
}

func parseBar(record []string) (domain.Bar, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
	if err != nil {
		// Plain dates are accepted for hand-written files.
		t, err = time.Parse(time.DateOnly, strings.TrimSpace(record[0]))
		if err != nil {
			return domain.Bar{}, fmt.Errorf("parsing time '%s': %w", record[0], err)
		}
	}
	values := make([]float64, 5)
	for i, field := range record[2:] {
		field = strings.TrimSpace(field)
		if field == "" {
			continue // Missing volume and the like
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("parsing %s '%s': %w", BarHeader[i+2], field, err)
		}
		values[i] = v
	}
	return domain.Bar{Time: t.UTC(), Open: values[0], High: values[1], Low: values[2], Close: values[3], Volume: values[4]}, nil
}
