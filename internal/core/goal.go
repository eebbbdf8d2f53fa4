package core

import "github.com/shopspring/decimal"

// AddToGoal returns g with delta added to its progress. The result may exceed
// the target. A non-positive delta leaves g unchanged.
func AddToGoal(g Goal, delta decimal.Decimal) Goal {
	if !delta.IsPositive() {
		return g
	}
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	return g
}

// RemoveFromGoal returns g with delta taken from its progress, clamped at
// zero. A non-positive delta leaves g unchanged.
func RemoveFromGoal(g Goal, delta decimal.Decimal) Goal {
	if !delta.IsPositive() {
		return g
	}
	next := g.CurrentAmount.Sub(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	g.CurrentAmount = next
	return g
}

// AdjustGoal routes a signed delta to AddToGoal or RemoveFromGoal.
func AdjustGoal(g Goal, delta decimal.Decimal) Goal {
	if delta.IsNegative() {
		return RemoveFromGoal(g, delta.Neg())
	}
	return AddToGoal(g, delta)
}

// ReplaceGoal swaps the goal carrying updated.ID for updated, as one
// remove-then-insert: the old record is dropped and the new one appended,
// which is where the document store's union puts it. The input slice is not
// modified. ErrItemNotFound is returned when no goal has that id.
func ReplaceGoal(goals []Goal, updated Goal) ([]Goal, error) {
	out := make([]Goal, 0, len(goals))
	found := false
	for _, g := range goals {
		if g.ID == updated.ID {
			found = true
			continue
		}
		out = append(out, g)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return append(out, updated), nil
}

// FindGoal returns the goal with the given id.
func FindGoal(goals []Goal, id string) (Goal, bool) {
	for _, g := range goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}
