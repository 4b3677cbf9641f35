package domain

// ProgressSink receives incremental progress from an orchestrator. The
// orchestrator stays transport-agnostic: callers decide whether updates go
// to a channel, a WebSocket, or nowhere.
//
// Contract: OnProgress percentages are non-decreasing in [0, 100];
// exactly one of OnComplete or OnError terminates a run.
type ProgressSink interface {
	OnProgress(percentage float64)
	OnComplete(result interface{})
	OnError(message string)
}

// NopSink discards all progress. Used by the synchronous entry points.
type NopSink struct{}

func (NopSink) OnProgress(float64)     {}
func (NopSink) OnComplete(interface{}) {}
func (NopSink) OnError(string)         {}
