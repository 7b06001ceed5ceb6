package domain

import "fmt"

// MaxGoals is the number of goals a session may focus on at once.
const MaxGoals = 3

const (
	GoalFreedom  = "Financial Freedom (time independence)"
	GoalProperty = "Buy Investment Property"
)

var goalCatalog = []string{
	GoalFreedom,
	GoalProperty,
	"Reduce Stress / Increase Buffer",
	"Retire Early",
	"Pay Off Debt",
	"Increase Income",
	"Fund Kids / Family",
	"Start Business",
}

// Goals returns the selectable goals in display order.
func Goals() []string {
	out := make([]string, len(goalCatalog))
	copy(out, goalCatalog)
	return out
}

// ValidateGoals checks that goals are known, distinct and at most MaxGoals.
func ValidateGoals(goals []string) error {
	if len(goals) > MaxGoals {
		return fmt.Errorf("at most %d goals, got %d", MaxGoals, len(goals))
	}
	seen := make(map[string]bool, len(goals))
	for _, g := range goals {
		if !isKnownGoal(g) {
			return fmt.Errorf("unknown goal %q", g)
		}
		if seen[g] {
			return fmt.Errorf("duplicate goal %q", g)
		}
		seen[g] = true
	}
	return nil
}

// GoalsConflict reports whether the selection pairs property buying with time independence.
func GoalsConflict(goals []string) bool {
	var freedom, property bool
	for _, g := range goals {
		switch g {
		case GoalFreedom:
			freedom = true
		case GoalProperty:
			property = true
		}
	}
	return freedom && property
}

func isKnownGoal(g string) bool {
	for _, k := range goalCatalog {
		if k == g {
			return true
		}
	}
	return false
}
