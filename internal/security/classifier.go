package security

import "github.com/leefowlercu/pais-hooks/pkg/types"

// Classify maps a shell command to the most severe matching tier.
// Tiers are consulted in ascending order and evaluation stops at the first match.
func Classify(command string) (types.SecurityFinding, bool) {
	for _, tier := range tiers {
		if tier.Matches(command) {
			return types.SecurityFinding{
				Tier:        tier.Number,
				Description: tier.Description,
				Action:      tier.Action,
			}, true
		}
	}

	return types.SecurityFinding{}, false
}

// Tiers returns a summary of every tier in evaluation order
func Tiers() []types.SecurityFinding {
	summary := make([]types.SecurityFinding, 0, len(tiers))
	for _, tier := range tiers {
		summary = append(summary, types.SecurityFinding{
			Tier:        tier.Number,
			Description: tier.Description,
			Action:      tier.Action,
		})
	}
	return summary
}
