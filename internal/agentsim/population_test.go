package agentsim

import (
	"math/rand"
	"testing"

	"tokenomics-lab/internal/domain"
)

func countByKind(agents []agent) map[domain.AgentType]int {
	counts := make(map[domain.AgentType]int)
	for i := range agents {
		counts[agents[i].kind]++
	}
	return counts
}

func TestSpawnPopulation_ExactSplit(t *testing.T) {
	cfg := domain.DefaultParameters().Agents
	agents := spawnPopulation(cfg, 1000, rand.New(rand.NewSource(1)))

	if len(agents) != 1000 {
		t.Fatalf("expected 1000 agents, got %d", len(agents))
	}

	counts := countByKind(agents)
	if counts[domain.AgentCreator] != 100 {
		t.Errorf("expected 100 creators, got %d", counts[domain.AgentCreator])
	}
	if counts[domain.AgentWhale] != 20 {
		t.Errorf("expected 20 whales, got %d", counts[domain.AgentWhale])
	}
	if counts[domain.AgentBot] != 80 {
		t.Errorf("expected 80 bots, got %d", counts[domain.AgentBot])
	}
	if counts[domain.AgentConsumer] != 800 {
		t.Errorf("expected 800 consumers, got %d", counts[domain.AgentConsumer])
	}
}

func TestSpawnPopulation_RemainderGoesToConsumers(t *testing.T) {
	cfg := domain.DefaultParameters().Agents
	agents := spawnPopulation(cfg, 997, rand.New(rand.NewSource(1)))

	if len(agents) != 997 {
		t.Fatalf("expected 997 agents, got %d", len(agents))
	}

	// Truncated splits: 99 creators, 19 whales, 79 bots; consumers absorb
	// the rounding remainder.
	counts := countByKind(agents)
	if counts[domain.AgentCreator] != 99 {
		t.Errorf("expected 99 creators, got %d", counts[domain.AgentCreator])
	}
	if counts[domain.AgentWhale] != 19 {
		t.Errorf("expected 19 whales, got %d", counts[domain.AgentWhale])
	}
	if counts[domain.AgentBot] != 79 {
		t.Errorf("expected 79 bots, got %d", counts[domain.AgentBot])
	}
	if counts[domain.AgentConsumer] != 800 {
		t.Errorf("expected 800 consumers, got %d", counts[domain.AgentConsumer])
	}
}

func TestSpawnPopulation_ActivityWithinSpread(t *testing.T) {
	cfg := domain.DefaultParameters().Agents
	agents := spawnPopulation(cfg, 500, rand.New(rand.NewSource(2)))

	for i := range agents {
		b := cfg.Behavior[agents[i].kind]
		lo := b.ActivityMean - b.ActivitySpread
		if lo < minActivity {
			lo = minActivity
		}
		hi := b.ActivityMean + b.ActivitySpread
		if agents[i].activity < lo || agents[i].activity > hi {
			t.Errorf("agent %d (%s): activity %f outside [%f, %f]",
				i, agents[i].kind, agents[i].activity, lo, hi)
		}
	}
}

func TestSpawnPopulation_ActivityFloor(t *testing.T) {
	cfg := domain.DefaultParameters().Agents
	cfg.Proportions = domain.AgentProportions{Consumer: 1.0}
	b := cfg.Behavior[domain.AgentConsumer]
	b.ActivityMean = 0
	b.ActivitySpread = 0
	cfg.Behavior[domain.AgentConsumer] = b

	agents := spawnPopulation(cfg, 50, rand.New(rand.NewSource(1)))
	for i := range agents {
		if agents[i].activity != minActivity {
			t.Errorf("agent %d: expected floor activity %f, got %f", i, minActivity, agents[i].activity)
		}
	}
}
