package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"stockDash/internal/game"
	"stockDash/internal/ports"
)

func main() {
	if err := run(os.Stdin, os.Stdout, game.RandomTarget); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run plays until input ends or the player types "quit".
func run(in io.Reader, out io.Writer, next game.TargetFunc) error {
	state := game.NewState(next)
	fmt.Fprintf(out, "Guess a number between %d and %d (\"quit\" to stop).\n", game.MinTarget, game.MaxTarget)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "quit") {
			return nil
		}

		guess, err := game.ParseGuess(line)
		if errors.Is(err, ports.ErrInvalidInput) {
			fmt.Fprintf(out, "Please enter a whole number between %d and %d.\n", game.MinTarget, game.MaxTarget)
			continue
		}
		if err != nil {
			return err
		}

		var outcome game.Outcome
		attempts := state.Attempts + 1
		outcome, state = game.Evaluate(state, guess, next)
		if outcome == game.Correct {
			fmt.Fprintf(out, "%s You got it in %d attempt(s). New number drawn.\n", outcome, attempts)
			continue
		}
		fmt.Fprintf(out, "%s Attempts: %d\n", outcome, state.Attempts)
	}
}
