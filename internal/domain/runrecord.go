package domain

import "time"

// Run kinds
const (
	RunKindDeterministic = "deterministic"
	RunKindMonteCarlo    = "monte_carlo"
	RunKindAgentBased    = "agent_based"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// RunRecord is the persisted summary of one run or job. The full monthly
// sequence goes to the time-series store; this record is what listings and
// status endpoints read.
type RunRecord struct {
	RunID         string     `json:"run_id"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	ScenarioID    string     `json:"scenario_id"`
	CycleID       string     `json:"cycle_id"`
	HorizonMonths int        `json:"horizon_months"`
	Iterations    int        `json:"iterations"`
	Seed          int64      `json:"seed"`
	ParamsJSON    []byte     `json:"params_json,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Error         string     `json:"error,omitempty"`

	// Headline figures, populated on completion.
	FinalUsers       int     `json:"final_users"`
	FinalTokenPrice  float64 `json:"final_token_price"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalProfit      float64 `json:"total_profit"`
	AvgRecaptureRate float64 `json:"avg_recapture_rate"`
}
