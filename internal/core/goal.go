package core

// Goal progress and finalization rules. A goal is Active until its current
// amount reaches the target, then Finalized; Finalized is terminal.

// Progress returns the completion percentage, capped at 100. A zero or
// negative target yields 0 rather than dividing by zero.
func Progress(current, target Money) float64 {
	if target.Cents <= 0 {
		return 0
	}
	p := float64(current.Cents) / float64(target.Cents) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Progress returns the goal's completion percentage.
func (g Goal) Progress() float64 {
	return Progress(g.CurrentAmount, g.TargetAmount)
}

// AddContribution returns the goal with the amount applied and the Finalized
// flag recomputed in the same step, so no caller can observe an updated
// amount with a stale flag. Non-positive amounts are rejected.
func (g Goal) AddContribution(amount Money) (Goal, error) {
	if amount.Cents <= 0 {
		return Goal{}, ErrInvalidAmount
	}
	g.CurrentAmount.Cents += amount.Cents
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.Finalized = true
	}
	return g, nil
}

// FinalizeGap fills the remaining distance to the target as one contribution
// so the goal lands at exactly 100% and Finalized=true. Already-complete
// goals only get the flag set.
func (g Goal) FinalizeGap() Goal {
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.Finalized = true
		return g
	}
	gap := Money{Cents: g.TargetAmount.Cents - g.CurrentAmount.Cents}
	done, err := g.AddContribution(gap)
	if err != nil {
		// gap is positive here; keep the goal untouched if that ever changes
		return g
	}
	return done
}
