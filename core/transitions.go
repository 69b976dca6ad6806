package core

import (
	"fmt"
	"time"
)

// Outcome is the result of running one pipeline stage against one item.
type Outcome int

const (
	// OutcomeSuccess means the stage completed its work for the item.
	OutcomeSuccess Outcome = iota + 1
	// OutcomeFailure means the stage failed for the item.
	OutcomeFailure
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// transition describes one legal edge of the item state machine.
type transition struct {
	next State
	// countRetry increments Retries on this edge. Only retry-eligible
	// stages use the counter; blog extraction failures do not.
	countRetry bool
	// clearRetries resets the counter after a retried stage succeeds.
	clearRetries bool
}

// transitions is the complete state machine, keyed by
// (kind, current state, outcome). Anything not listed here is illegal.
var transitions = map[Kind]map[State]map[Outcome]transition{
	KindBlog: {
		StateDiscovered: {
			OutcomeSuccess: {next: StateFetchedRaw},
			OutcomeFailure: {next: StateFailedRaw},
		},
	},
	KindEpisode: {
		StateDiscovered: {
			OutcomeSuccess: {next: StateAudioDownloaded, clearRetries: true},
			OutcomeFailure: {next: StateAudioFailed, countRetry: true},
		},
		StateAudioFailed: {
			OutcomeSuccess: {next: StateAudioDownloaded, clearRetries: true},
			OutcomeFailure: {next: StateAudioFailed, countRetry: true},
		},
		StateAudioDownloaded: {
			// Transcription failures keep the item downloaded and
			// retry-eligible on a later run.
			OutcomeSuccess: {next: StateTranscribed, clearRetries: true},
			OutcomeFailure: {next: StateAudioDownloaded, countRetry: true},
		},
	},
}

// Next returns the state an item of the given kind moves to from the
// current state for the given outcome. Returns ErrIllegalTransition for
// edges not present in the table.
func Next(kind Kind, current State, outcome Outcome) (State, error) {
	byState, ok := transitions[kind]
	if !ok {
		return "", fmt.Errorf("%w: kind %q", ErrIllegalTransition, kind)
	}
	byOutcome, ok := byState[current]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s has no outgoing transitions", ErrIllegalTransition, kind, current)
	}
	t, ok := byOutcome[outcome]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s on %s", ErrIllegalTransition, kind, current, outcome)
	}
	return t.next, nil
}

// Apply advances the item along the transition for the given outcome,
// maintaining the retry counter and LastChecked. It is the only way
// stages are allowed to mutate lifecycle fields.
func (i *Item) Apply(outcome Outcome, now time.Time) error {
	byState, ok := transitions[i.Kind]
	if !ok {
		return fmt.Errorf("%w: kind %q", ErrIllegalTransition, i.Kind)
	}
	byOutcome, ok := byState[i.State]
	if !ok {
		return fmt.Errorf("%w: %s/%s has no outgoing transitions", ErrIllegalTransition, i.Kind, i.State)
	}
	t, ok := byOutcome[outcome]
	if !ok {
		return fmt.Errorf("%w: %s/%s on %s", ErrIllegalTransition, i.Kind, i.State, outcome)
	}

	i.State = t.next
	if t.countRetry {
		i.Retries++
	}
	if t.clearRetries {
		i.Retries = 0
	}
	i.LastChecked = now.UTC()
	return nil
}
