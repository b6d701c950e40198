package rules

import (
	"fmt"

	"github.com/servicodocente/dsd/pkg/core/model"
)

// BlockGranularityCriterion requires teaching blocks of pre-school and 1st cycle
// classes to last a whole number of hours.
//
// One finding per offending block. The correction always rounds the block up to
// the next whole unit, never down.
type BlockGranularityCriterion struct {
	policy Policy
}

// NewBlockGranularityCriterion creates a new BlockGranularityCriterion
func NewBlockGranularityCriterion(policy Policy) *BlockGranularityCriterion {
	return &BlockGranularityCriterion{policy: policy}
}

func (c *BlockGranularityCriterion) Name() string {
	return RuleBlockGranularity
}

func (c *BlockGranularityCriterion) Evaluate(ev *Evaluation) []Finding {
	unit := c.policy.BlockUnit
	if unit <= 0 {
		return nil
	}

	var findings []Finding
	for _, block := range ev.Aggregate.Blocks {
		if block.Category != model.CategoryTeaching || block.Duration == 0 || block.ClassGroupID == "" {
			continue
		}
		class, ok := ev.Classes[block.ClassGroupID]
		if !ok || !c.policy.requiresWholeUnits(class.Cycle) {
			continue
		}

		rest := block.Duration % unit
		if rest == 0 {
			continue
		}

		missing := unit - rest
		findings = append(findings, Finding{
			Rule: c.Name(),
			Message: fmt.Sprintf("Bloco letivo de %d min (%s %s-%s, turma %s) não é múltiplo de %d min",
				block.Duration, block.Weekday, block.Start, block.End, class.ID, unit),
			Correction: addCorrection(missing,
				fmt.Sprintf("Acrescentar %d min para perfazer %d min", missing, block.Duration+missing)),
		})
	}
	return findings
}
