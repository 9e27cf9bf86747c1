package dunning

import (
	"fmt"
	"sort"
)

// StagePolicy maps days overdue to a recommended stage. The mapping must be
// monotonically non-decreasing: a lease overdue longer never gets a lower
// stage than one overdue for less time.
type StagePolicy struct {
	steps []policyStep
}

type policyStep struct {
	minDays int
	stage   Stage
}

// DefaultStagePolicy returns the fixed default thresholds:
// 1+ days reminder, 14+ first notice, 30+ second notice, 60+ final notice.
func DefaultStagePolicy() StagePolicy {
	p, _ := NewStagePolicy(map[Stage]int{
		StageReminder: 1,
		StageNotice1:  14,
		StageNotice2:  30,
		StageFinal:    60,
	})
	return p
}

// NewStagePolicy builds a policy from per-stage minimum overdue days and
// validates that thresholds respect the stage order.
func NewStagePolicy(thresholds map[Stage]int) (StagePolicy, error) {
	steps := make([]policyStep, 0, len(thresholds))
	for stage, minDays := range thresholds {
		if !stage.IsValid() {
			return StagePolicy{}, fmt.Errorf("unknown dunning stage %q", stage)
		}
		if minDays < 1 {
			return StagePolicy{}, fmt.Errorf("threshold for stage %q must be at least 1 day", stage)
		}
		steps = append(steps, policyStep{minDays: minDays, stage: stage})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].minDays < steps[j].minDays })
	for i := 1; i < len(steps); i++ {
		if steps[i].stage.Level() < steps[i-1].stage.Level() {
			return StagePolicy{}, fmt.Errorf("stage %q (%d days) ranks below %q (%d days)",
				steps[i].stage, steps[i].minDays, steps[i-1].stage, steps[i-1].minDays)
		}
	}
	return StagePolicy{steps: steps}, nil
}

// StageFor returns the highest stage whose threshold daysOverdue meets.
// Returns false if no stage applies yet.
func (p StagePolicy) StageFor(daysOverdue int) (Stage, bool) {
	var (
		result Stage
		found  bool
	)
	for _, step := range p.steps {
		if daysOverdue >= step.minDays {
			result = step.stage
			found = true
		}
	}
	return result, found
}
