// Package main provides the projection API server:
// - Synchronous runs: deterministic and small Monte Carlo over HTTP
// - Asynchronous jobs: large Monte Carlo and agent runs with progress
//   streaming over WebSocket
// - Run history: persisted run records and monthly time series
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"tokenomics-lab/internal/agentsim"
	"tokenomics-lab/internal/config"
	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/idhash"
	"tokenomics-lab/internal/jobs"
	"tokenomics-lab/internal/montecarlo"
	"tokenomics-lab/internal/observability"
	"tokenomics-lab/internal/projection"
	"tokenomics-lab/internal/storage"
	chstore "tokenomics-lab/internal/storage/clickhouse"
	"tokenomics-lab/internal/storage/memory"
	pgstore "tokenomics-lab/internal/storage/postgres"
)

// Defaults for agent-based submissions that omit population shape.
const (
	defaultAgentCount = 1000
	defaultAgentSeed  = 1
)

// storeTimeout bounds persistence calls made outside a request context,
// such as recording a job's completion after its context was cancelled.
const storeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server holds the API server's dependencies.
type Server struct {
	cfg *config.Config

	// baseParamsJSON is the configured parameter set in canonical JSON.
	// Each request deep-copies it by unmarshalling, so request overlays
	// never mutate shared maps.
	baseParamsJSON []byte

	stores      *allStores
	jobs        *jobs.Manager
	logger      *log.Logger
	verbose     bool
	startedAt   time.Time
	storageMode string
}

// allStores holds all storage implementations. pool is nil under
// in-memory storage.
type allStores struct {
	runs   storage.RunStore
	months storage.MonthlyStateStore
	pool   *pgstore.Pool
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", os.Getenv("SERVER_ADDR"), "HTTP listen address (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	sweepInterval := flag.Duration("sweep-interval", 10*time.Minute, "How often terminal jobs are swept")
	jobRetention := flag.Duration("job-retention", 1*time.Hour, "How long terminal jobs stay queryable")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Load config and apply flag overrides
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Storage.ClickhouseDSN = *clickhouseDSN
	}
	if *useMemory {
		cfg.Storage.UseMemory = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if cfg.Run.Workers == 0 {
		cfg.Run.Workers = runtime.NumCPU()
	}

	if !cfg.Storage.UseMemory && (cfg.Storage.PostgresDSN == "" || cfg.Storage.ClickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	baseParamsJSON, err := json.Marshal(cfg.Parameters)
	if err != nil {
		logger.Fatalf("marshal base parameters: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, cfg.Storage.PostgresDSN, cfg.Storage.ClickhouseDSN, cfg.Storage.UseMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	storageMode := "postgres+clickhouse"
	if cfg.Storage.UseMemory {
		storageMode = "memory"
	}

	server := &Server{
		cfg:            cfg,
		baseParamsJSON: baseParamsJSON,
		stores:         stores,
		jobs: jobs.NewManager(jobs.ManagerOptions{
			Logger:  log.New(os.Stdout, "[jobs] ", log.LstdFlags),
			Verbose: *verbose,
		}),
		logger:      logger,
		verbose:     *verbose,
		startedAt:   time.Now().UTC(),
		storageMode: storageMode,
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.routes(),
	}

	// Channel to signal completion
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Sweep terminal jobs on schedule
	go server.sweepLoop(ctx, *sweepInterval, *jobRetention)

	// Keep the uptime counter and pool gauges current
	go server.metricsLoop(ctx, 15*time.Second)

	logger.Printf("Starting HTTP server on %s (storage: %s, workers: %d)",
		cfg.Server.Addr, storageMode, cfg.Run.Workers)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	close(done)
	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			runs:   memory.NewRunStore(),
			months: memory.NewMonthlyStateStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL for run records
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pgstore.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse for the monthly time series
	conn, err := chstore.RunMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		runs:   pgstore.NewRunStore(pool),
		months: chstore.NewMonthlyStateStore(conn),
		pool:   pool,
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("POST /api/runs", s.handleSubmitRun)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/months", s.handleGetRunMonths)

	mux.HandleFunc("POST /api/jobs", s.handleSubmitJob)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleCancelJob)

	mux.HandleFunc("GET /ws/jobs/{id}", s.handleJobWS)

	return mux
}

// sweepLoop drops terminal jobs older than retention until ctx is done.
func (s *Server) sweepLoop(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.jobs.Sweep(retention)
		}
	}
}

// metricsLoop ticks the uptime counter and refreshes the postgres
// connection-pool gauges until ctx is done.
func (s *Server) metricsLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.RecordUptime(interval.Seconds())
			if s.stores.pool != nil {
				stat := s.stores.pool.Stat()
				observability.SetDBConnections("postgres",
					int(stat.AcquiredConns()), int(stat.IdleConns()), int(stat.TotalConns()))
			}
		}
	}
}

// submitRequest is the body for POST /api/runs and POST /api/jobs. Params
// holds partial parameter overrides layered over the server's configured
// base; mode is accepted as an alias for kind.
type submitRequest struct {
	Kind          string          `json:"kind"`
	Mode          string          `json:"mode"`
	HorizonMonths int             `json:"horizon_months"`
	Iterations    int             `json:"iterations"`
	Seed          *int64          `json:"seed"`
	AgentCount    int             `json:"agent_count"`
	Months        int             `json:"months"`
	Params        json.RawMessage `json:"params"`
}

// runSpec is a fully resolved submission: effective parameters, scalar
// knobs, and the deterministic run ID.
type runSpec struct {
	kind       string
	params     domain.Parameters
	paramsJSON []byte
	horizon    int
	iterations int
	seed       int64
	agentCount int
	months     int
	runID      string
}

// resolveParams deep-copies the configured base parameters and overlays
// request-supplied fields on top.
func (s *Server) resolveParams(raw json.RawMessage) (domain.Parameters, error) {
	var params domain.Parameters
	if err := json.Unmarshal(s.baseParamsJSON, &params); err != nil {
		return domain.Parameters{}, fmt.Errorf("decode base parameters: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return domain.Parameters{}, fmt.Errorf("parse params: %w", err)
		}
	}
	return params, nil
}

// buildRunSpec validates a submission and resolves it against the server
// config.
func (s *Server) buildRunSpec(req submitRequest) (*runSpec, error) {
	kind := req.Kind
	if kind == "" {
		kind = req.Mode
	}
	if kind == "" {
		kind = domain.RunKindDeterministic
	}

	params, err := s.resolveParams(req.Params)
	if err != nil {
		return nil, err
	}

	spec := &runSpec{kind: kind, params: params, horizon: s.cfg.Run.HorizonMonths}
	if req.HorizonMonths > 0 {
		spec.horizon = req.HorizonMonths
	}

	switch kind {
	case domain.RunKindDeterministic:
		// No extra knobs; runs off the resolved parameters alone.

	case domain.RunKindMonteCarlo:
		if req.Iterations > 0 {
			spec.params.MonteCarlo.Iterations = req.Iterations
		}
		if req.Seed != nil {
			spec.params.MonteCarlo.Seed = *req.Seed
		}
		spec.iterations = spec.params.MonteCarlo.Iterations
		spec.seed = spec.params.MonteCarlo.Seed

	case domain.RunKindAgentBased:
		spec.agentCount = req.AgentCount
		if spec.agentCount == 0 {
			spec.agentCount = defaultAgentCount
		}
		spec.months = req.Months
		if spec.months == 0 {
			spec.months = spec.horizon
		}
		spec.seed = defaultAgentSeed
		if req.Seed != nil {
			spec.seed = *req.Seed
		}
		// Agent runs are bounded by their own month count.
		spec.horizon = spec.months

	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	if err := spec.params.Validate(); err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(spec.params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	spec.paramsJSON = canonical
	spec.runID = idhash.ComputeRunID(spec.kind, canonical, spec.horizon, spec.seed)

	return spec, nil
}

// execute runs a resolved spec to completion. Progress and the terminal
// event flow through sink; run-record persistence and run metrics happen
// here so the synchronous and job paths share them.
func (s *Server) execute(ctx context.Context, spec *runSpec, sink domain.ProgressSink) (interface{}, error) {
	start := time.Now()
	result, err := s.dispatch(ctx, spec, sink)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		status := domain.RunStatusFailed
		if errors.Is(err, context.Canceled) {
			status = domain.RunStatusCancelled
		}
		observability.RecordRun(spec.kind, status, elapsed)
		return nil, err
	}

	observability.RecordRun(spec.kind, domain.RunStatusCompleted, elapsed)
	observability.RecordSuccessfulRun(float64(time.Now().Unix()))
	return result, nil
}

// dispatch routes a resolved spec to its runner.
func (s *Server) dispatch(ctx context.Context, spec *runSpec, sink domain.ProgressSink) (interface{}, error) {
	switch spec.kind {
	case domain.RunKindDeterministic:
		runner := projection.NewRunner(projection.Options{
			Params:        spec.params,
			HorizonMonths: spec.horizon,
			Logger:        s.logger,
			Verbose:       s.verbose,
		})
		result, err := runner.Run(ctx)
		if err != nil {
			s.recordRunFailure(spec.runID, err)
			sink.OnError(err.Error())
			return nil, err
		}
		sink.OnComplete(result)
		observability.RecordMonthsComputed(len(result.Months))
		s.recordRunSuccess(spec.runID, result.Summary, result.Months)
		return result, nil

	case domain.RunKindMonteCarlo:
		runner := montecarlo.NewRunner(montecarlo.Options{
			Params:        spec.params,
			HorizonMonths: spec.horizon,
			Workers:       s.cfg.Run.Workers,
			Sink:          sink,
			Logger:        s.logger,
			Verbose:       s.verbose,
		})
		ens, err := runner.Run(ctx)
		if err != nil {
			s.recordRunFailure(spec.runID, err)
			return nil, err
		}
		observability.RecordTrialsSimulated(spec.iterations)
		observability.RecordMonthsComputed(spec.iterations * spec.horizon)
		s.recordRunSuccess(spec.runID, ens.P50.Summary, ens.P50.Months)
		return ens, nil

	case domain.RunKindAgentBased:
		runner := agentsim.NewRunner(agentsim.Options{
			Params:     spec.params,
			AgentCount: spec.agentCount,
			Months:     spec.months,
			Seed:       spec.seed,
			Sink:       sink,
			Logger:     s.logger,
			Verbose:    s.verbose,
		})
		result, err := runner.Run(ctx)
		if err != nil {
			s.recordRunFailure(spec.runID, err)
			return nil, err
		}
		observability.RecordAgentsSimulated(spec.agentCount)
		s.recordRunSuccess(spec.runID, agentRunSummary(result), nil)
		return result, nil

	default:
		return nil, fmt.Errorf("unknown run kind %q", spec.kind)
	}
}

// agentRunSummary adapts a population result to the run record's headline
// shape. Population runs have no revenue pipeline, so the money fields
// stay zero and the estimated price is the headline.
func agentRunSummary(r *domain.AgentPopulationResult) domain.RunSummary {
	return domain.RunSummary{
		HorizonMonths:   r.Months,
		FinalUsers:      r.AgentCount,
		FinalTokenPrice: r.FinalEstimatedPrice,
	}
}

// newRunRecord builds the initial running record for a resolved spec.
func newRunRecord(spec *runSpec) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:         spec.runID,
		Kind:          spec.kind,
		Status:        domain.RunStatusRunning,
		ScenarioID:    spec.params.GrowthScenario,
		CycleID:       spec.params.MarketCycle,
		HorizonMonths: spec.horizon,
		Iterations:    spec.iterations,
		Seed:          spec.seed,
		ParamsJSON:    spec.paramsJSON,
		CreatedAt:     time.Now().UTC(),
	}
}

// recordRunStart inserts the initial run record. Identical re-submissions
// share a run ID, so duplicates are expected and not an error.
func (s *Server) recordRunStart(rec *domain.RunRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.stores.runs.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Printf("insert run record %s: %v", rec.RunID, err)
	}
}

// recordRunSuccess marks the run completed and stores its monthly series.
// Persistence problems are logged, never surfaced: the caller already
// holds the computed result.
func (s *Server) recordRunSuccess(runID string, summary domain.RunSummary, months []domain.MonthlyState) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.stores.runs.MarkCompleted(ctx, runID, time.Now().UTC(), summary); err != nil {
		s.logger.Printf("mark run %s completed: %v", runID, err)
	}
	if len(months) == 0 {
		return
	}
	if err := s.stores.months.InsertBulk(ctx, runID, months); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Printf("insert monthly states for run %s: %v", runID, err)
	}
}

// recordRunFailure marks the run failed, or cancelled when the context
// was cancelled.
func (s *Server) recordRunFailure(runID string, runErr error) {
	status := domain.RunStatusFailed
	if errors.Is(runErr, context.Canceled) {
		status = domain.RunStatusCancelled
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.stores.runs.MarkFailed(ctx, runID, status, runErr.Error(), time.Now().UTC()); err != nil {
		s.logger.Printf("mark run %s %s: %v", runID, status, err)
	}
}

// runResponse is the JSON body for synchronous run results.
type runResponse struct {
	RunID  string      `json:"run_id"`
	Kind   string      `json:"kind"`
	Result interface{} `json:"result"`
}

// handleSubmitRun executes a run synchronously and returns the full
// result. Monte Carlo submissions above the configured iteration limit
// are rejected and must go through the job manager.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("parse request: %v", err))
		return
	}

	spec, err := s.buildRunSpec(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if spec.kind == domain.RunKindMonteCarlo && spec.iterations > spec.params.MonteCarlo.SyncIterationLimit {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"%d iterations exceeds the synchronous limit of %d, submit to /api/jobs instead",
			spec.iterations, spec.params.MonteCarlo.SyncIterationLimit))
		return
	}

	s.recordRunStart(newRunRecord(spec))

	start := time.Now()
	result, err := s.execute(r.Context(), spec, domain.NopSink{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Printf("run %s kind=%s completed in %v", spec.runID, spec.kind, time.Since(start))
	s.writeJSON(w, http.StatusOK, runResponse{RunID: spec.runID, Kind: spec.kind, Result: result})
}

// handleListRuns returns persisted run records, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := s.stores.runs.List(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun returns one persisted run record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.stores.runs.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

// handleGetRunMonths returns a run's monthly series, optionally sliced by
// from/to query parameters (inclusive).
func (s *Server) handleGetRunMonths(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := s.stores.runs.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := r.URL.Query()
	var months []domain.MonthlyState
	if q.Has("from") || q.Has("to") {
		from, to := 1, rec.HorizonMonths
		if v := q.Get("from"); v != "" {
			if from, err = strconv.Atoi(v); err != nil {
				s.writeError(w, http.StatusBadRequest, "invalid from")
				return
			}
		}
		if v := q.Get("to"); v != "" {
			if to, err = strconv.Atoi(v); err != nil {
				s.writeError(w, http.StatusBadRequest, "invalid to")
				return
			}
		}
		months, err = s.stores.months.GetByMonthRange(r.Context(), id, from, to)
	} else {
		months, err = s.stores.months.GetByRunID(r.Context(), id)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": id,
		"months": months,
		"count":  len(months),
	})
}

// submitJobResponse is the JSON body returned on job submission.
type submitJobResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// jobStatusResponse is the JSON body for job status reads.
type jobStatusResponse struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Status      string      `json:"status"`
	Progress    float64     `json:"progress"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Result      interface{} `json:"result,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// handleSubmitJob starts an asynchronous run and returns its job ID.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("parse request: %v", err))
		return
	}

	spec, err := s.buildRunSpec(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordRunStart(newRunRecord(spec))

	job, err := s.jobs.Submit(jobs.Kind(spec.kind), func(ctx context.Context, sink domain.ProgressSink) error {
		_, err := s.execute(ctx, spec, sink)
		return err
	})
	if err != nil {
		s.recordRunFailure(spec.runID, err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, submitJobResponse{
		ID:     job.ID,
		Kind:   string(job.Kind),
		Status: string(job.Status()),
		RunID:  spec.runID,
	})
}

// handleGetJob returns a job's current status, progress, and result once
// terminal.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	result, errMsg := job.Result()
	resp := jobStatusResponse{
		ID:        job.ID,
		Kind:      string(job.Kind),
		Status:    string(job.Status()),
		Progress:  job.Progress(),
		CreatedAt: job.CreatedAt,
		Result:    result,
		Error:     errMsg,
	}
	if completed := job.CompletedAt(); !completed.IsZero() {
		resp.CompletedAt = &completed
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleCancelJob requests a best-effort stop of a running job.
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, ok := s.jobs.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if !s.jobs.Cancel(id) {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("job already %s", job.Status()))
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     id,
		"status": "cancelling",
	})
}

// handleJobWS streams a job's progress events over a WebSocket. The
// subscription replays current state for late subscribers, then the
// connection closes after the terminal event.
func (s *Server) handleJobWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ch, release, ok := s.jobs.Subscribe(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		s.logger.Printf("websocket upgrade for job %s: %v", id, err)
		return
	}
	defer conn.Close()
	defer release()

	// Reader goroutine solely to detect client disconnect.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-clientGone:
			return
		}
	}
}

// healthResponse is the JSON body for /health.
type healthResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	StartedAt   time.Time `json:"started_at"`
	Storage     string    `json:"storage"`
	JobsTracked int       `json:"jobs_tracked"`
}

// handleHealth returns server liveness and coarse runtime state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Uptime:      time.Since(s.startedAt).String(),
		StartedAt:   s.startedAt,
		Storage:     s.storageMode,
		JobsTracked: s.jobs.Len(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
