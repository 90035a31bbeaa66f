package main

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockDash/internal/ports"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, "Bar", 12, 3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "Finance Dashboard", lines[0])
	assert.Equal(t, "Stock Prices (bar chart, 12 points)", lines[1])
	// Title, subtitle, blank line, header, then one row per point.
	require.Len(t, lines, 4+12)
	assert.Contains(t, lines[4], "2023-01-01")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[4]), "-"), "moving average absent on the first row")
	assert.Contains(t, lines[len(lines)-1], "2023-01-12")
}

func TestRun_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		name   string
		chart  string
		points int
	}{
		{"unknown chart", "pie", 50},
		{"too few points", "line", 9},
		{"too many points", "area", 201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(&out, tt.chart, tt.points, 0, rng)
			assert.ErrorIs(t, err, ports.ErrInvalidInput)
			assert.Empty(t, out.String())
		})
	}
}
