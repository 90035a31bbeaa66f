// Package game implements the number-guessing evaluator. State is owned by the
// caller and every transition returns the next value.
package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"stockDash/internal/ports"
)

const (
	MinTarget = 1
	MaxTarget = 10
)

// Outcome is the result of comparing a guess with the target.
type Outcome int

const (
	TooLow Outcome = iota
	TooHigh
	Correct
)

func (o Outcome) String() string {
	switch o {
	case TooLow:
		return "Too low!"
	case TooHigh:
		return "Too high!"
	case Correct:
		return "Correct!"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// State is the game's persistent value between guesses.
type State struct {
	Target   int // In [MinTarget, MaxTarget]
	Attempts int // Guesses since the last correct one
}

// TargetFunc draws a new target in [MinTarget, MaxTarget].
type TargetFunc func() int

// RandomTarget draws the target uniformly.
func RandomTarget() int {
	return MinTarget + rand.IntN(MaxTarget-MinTarget+1)
}

// NewState starts a game with a fresh target.
func NewState(next TargetFunc) State {
	return State{Target: next()}
}

// Evaluate compares guess with the state's target. A correct guess resets the
// attempt counter and draws a new target; any other guess counts an attempt.
// guess must already be validated by ParseGuess.
func Evaluate(state State, guess int, next TargetFunc) (Outcome, State) {
	switch {
	case guess < state.Target:
		return TooLow, State{Target: state.Target, Attempts: state.Attempts + 1}
	case guess > state.Target:
		return TooHigh, State{Target: state.Target, Attempts: state.Attempts + 1}
	default:
		return Correct, State{Target: next(), Attempts: 0}
	}
}

// ParseGuess converts user input to a guess in [MinTarget, MaxTarget].
func ParseGuess(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse guess %q: %w: %w", text, ports.ErrInvalidInput, err)
	}
	if n < MinTarget || n > MaxTarget {
		return 0, fmt.Errorf("guess %d outside [%d, %d]: %w", n, MinTarget, MaxTarget, ports.ErrInvalidInput)
	}
	return n, nil
}
