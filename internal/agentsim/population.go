package agentsim

import (
	"math/rand"

	"tokenomics-lab/internal/domain"
)

// agent is one simulated participant. Balances are token-denominated;
// activity is a unitless engagement score fixed at spawn.
type agent struct {
	kind     domain.AgentType
	activity float64
	balance  float64
	staked   float64

	earned  float64 // lifetime rewards
	sold    float64
	flagged bool
}

// minActivity keeps the reward-to-activity ratio defined for every agent.
const minActivity = 0.01

// spawnPopulation builds count agents split by the configured proportions.
// Per-type counts are rounded down and the remainder is assigned to
// consumers, the bulk archetype, so the population size is exact. Activity
// scores draw uniformly from mean +/- spread.
func spawnPopulation(cfg domain.AgentConfig, count int, rng *rand.Rand) []agent {
	counts := map[domain.AgentType]int{
		domain.AgentCreator: int(float64(count) * cfg.Proportions.Creator),
		domain.AgentWhale:   int(float64(count) * cfg.Proportions.Whale),
		domain.AgentBot:     int(float64(count) * cfg.Proportions.Bot),
	}
	counts[domain.AgentConsumer] = count - counts[domain.AgentCreator] - counts[domain.AgentWhale] - counts[domain.AgentBot]

	agents := make([]agent, 0, count)
	for _, kind := range domain.AgentTypes {
		behavior := cfg.Behavior[kind]
		for i := 0; i < counts[kind]; i++ {
			activity := behavior.ActivityMean + behavior.ActivitySpread*(2*rng.Float64()-1)
			if activity < minActivity {
				activity = minActivity
			}
			agents = append(agents, agent{kind: kind, activity: activity})
		}
	}
	return agents
}
