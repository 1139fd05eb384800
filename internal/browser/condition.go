package browser

import "fmt"

// State is an element lifecycle state understood by WaitFor.
type State string

const (
	StateAttached State = "attached"
	StateDetached State = "detached"
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
)

// ConditionKind selects what a Condition checks.
type ConditionKind int

const (
	KindState ConditionKind = iota
	KindCount
	KindContainsText
	KindExactText
)

// Condition is what WaitFor waits for. Build one with ForState, ForCount,
// ForText or ForExactText.
type Condition struct {
	Kind  ConditionKind
	State State
	Count int
	Text  string
}

// ForState waits for the first match to reach state.
func ForState(state State) Condition {
	return Condition{Kind: KindState, State: state}
}

// ForCount waits for exactly n matches.
func ForCount(n int) Condition {
	return Condition{Kind: KindCount, Count: n}
}

// ForText waits for the matches to contain text.
func ForText(text string) Condition {
	return Condition{Kind: KindContainsText, Text: text}
}

// ForExactText waits for the match text to equal text.
func ForExactText(text string) Condition {
	return Condition{Kind: KindExactText, Text: text}
}

func (c Condition) String() string {
	switch c.Kind {
	case KindCount:
		return fmt.Sprintf("count=%d", c.Count)
	case KindContainsText:
		return fmt.Sprintf("contains %q", c.Text)
	case KindExactText:
		return fmt.Sprintf("text=%q", c.Text)
	default:
		return "state=" + string(c.State)
	}
}
