package console

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTaskNames splits a comma separated list. Both the ASCII comma and the
// full-width comma separate names; blanks are dropped.
func ParseTaskNames(input string) []string {
	input = strings.ReplaceAll(input, "，", ",")
	var names []string
	for _, part := range strings.Split(input, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ParseSpeed parses a playback multiplier. Empty input yields fallback.
func ParseSpeed(input string, fallback float64) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback, nil
	}
	speed, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", input)
	}
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return 0, fmt.Errorf("speed must be a positive number, got %q", input)
	}
	return speed, nil
}

// AskTasks asks once for the task names. An empty answer selects nothing.
func AskTasks(ctx context.Context, p Prompter, available []string) ([]string, error) {
	hint := "Separate names with commas. Press Enter to select nothing."
	if len(available) > 0 {
		hint = fmt.Sprintf("Available: %s\n%s", strings.Join(available, ", "), hint)
	}
	answer, err := p.Ask(ctx, Question{
		Title:       "Which tasks should be studied?",
		Hint:        hint,
		Placeholder: "Task A, Task B",
	})
	if err != nil {
		return nil, err
	}
	return ParseTaskNames(answer), nil
}

// AskSpeed prompts until a valid speed is entered.
func AskSpeed(ctx context.Context, p Prompter, fallback float64, log *Logger) (float64, error) {
	for {
		answer, err := p.Ask(ctx, Question{
			Title:       "Playback speed?",
			Hint:        fmt.Sprintf("Press Enter for %gx.", fallback),
			Placeholder: strconv.FormatFloat(fallback, 'g', -1, 64),
		})
		if err != nil {
			return 0, err
		}
		speed, err := ParseSpeed(answer, fallback)
		if err == nil {
			return speed, nil
		}
		log.Warnf("Invalid speed: %v", err)
	}
}
