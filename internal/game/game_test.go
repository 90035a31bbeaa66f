package game

import (
	"testing"

	"stockDash/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTarget(n int) TargetFunc {
	return func() int { return n }
}

func TestEvaluate_Scenario(t *testing.T) {
	state := NewState(fixedTarget(7))
	require.Equal(t, State{Target: 7, Attempts: 0}, state)

	guesses := []int{3, 9, 7}
	wantOutcomes := []Outcome{TooLow, TooHigh, Correct}
	wantAttempts := []int{1, 2, 0}

	for i, g := range guesses {
		var outcome Outcome
		outcome, state = Evaluate(state, g, fixedTarget(4))
		assert.Equal(t, wantOutcomes[i], outcome, "guess %d", g)
		assert.Equal(t, wantAttempts[i], state.Attempts, "guess %d", g)
	}
	assert.Equal(t, 4, state.Target, "a correct guess draws a new target")
}

func TestEvaluate_Properties(t *testing.T) {
	for target := MinTarget; target <= MaxTarget; target++ {
		for guess := MinTarget; guess <= MaxTarget; guess++ {
			start := State{Target: target, Attempts: 3}
			outcome, next := Evaluate(start, guess, fixedTarget(MinTarget))

			switch {
			case guess < target:
				assert.Equal(t, TooLow, outcome)
			case guess > target:
				assert.Equal(t, TooHigh, outcome)
			default:
				assert.Equal(t, Correct, outcome)
			}

			if outcome == Correct {
				assert.Equal(t, 0, next.Attempts)
				assert.Equal(t, MinTarget, next.Target)
			} else {
				assert.Equal(t, start.Attempts+1, next.Attempts)
				assert.Equal(t, target, next.Target)
			}
			assert.Equal(t, 3, start.Attempts, "input state must not change")
		}
	}
}

func TestRandomTarget_InRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := RandomTarget()
		assert.GreaterOrEqual(t, n, MinTarget)
		assert.LessOrEqual(t, n, MaxTarget)
	}
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"lower bound", "1", 1, false},
		{"upper bound", "10", 10, false},
		{"surrounding whitespace", " 7\n", 7, false},
		{"zero", "0", 0, true},
		{"above range", "11", 0, true},
		{"negative", "-3", 0, true},
		{"not a number", "seven", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGuess(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ports.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "Too low!", TooLow.String())
	assert.Equal(t, "Too high!", TooHigh.String())
	assert.Equal(t, "Correct!", Correct.String())
}
