package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/infrastructure/storage"
	"github.com/smilemakc/numbo/internal/infrastructure/storage/models"
	"github.com/smilemakc/numbo/internal/numbo"
	"github.com/smilemakc/numbo/internal/numbo/animation"
)

// ObserverOptions controls which animation sinks a Solve run attaches,
// mirroring config.ObserverConfig (kept separate to avoid an import cycle
// between config and rest).
type ObserverOptions struct {
	EnableLogger     bool
	EnableWebSocket  bool
	WebSocketBuffer  int
	NotifyBufferSize int
}

// SolveHandlers implements POST /solve, GET /solve/:run_id, and GET /ws
// (spec.md §6.4), the server-side counterpart of the CLI's direct call
// into the same numbo.Solve facade.
type SolveHandlers struct {
	hub           *WebSocketHub
	store         *RunStore
	runRepo       *storage.RunRepository // nil when the archive store is disabled
	auth          *AuthMiddleware
	logger        *logger.Logger
	stepCap       int
	decayInterval int
	observer      ObserverOptions
}

// NewSolveHandlers wires the handlers. runRepo may be nil.
func NewSolveHandlers(hub *WebSocketHub, store *RunStore, runRepo *storage.RunRepository, auth *AuthMiddleware, log *logger.Logger, defaultStepCap, decayInterval int, observer ObserverOptions) *SolveHandlers {
	return &SolveHandlers{hub: hub, store: store, runRepo: runRepo, auth: auth, logger: log, stepCap: defaultStepCap, decayInterval: decayInterval, observer: observer}
}

// buildSink assembles the animation sink for one run out of the enabled
// observers: the logger sink, when enabled, always listens; the websocket
// sink only attaches when the client also asked for animation.
func (h *SolveHandlers) buildSink(runID string, animate bool) animation.Sink {
	wantLogger := h.observer.EnableLogger
	wantWS := animate && h.observer.EnableWebSocket

	switch {
	case wantLogger && wantWS:
		mgr := animation.NewManager(animation.WithQueueSize(h.observer.NotifyBufferSize))
		_ = mgr.Register("logger", animation.NewLoggerSink(h.logger))
		_ = mgr.Register("websocket", NewHubSink(h.hub, runID))
		return mgr
	case wantLogger:
		return animation.NewLoggerSink(h.logger)
	case wantWS:
		return NewHubSink(h.hub, runID)
	default:
		return nil
	}
}

// SolveRequest is POST /solve's JSON body.
type SolveRequest struct {
	Target  string   `json:"target" binding:"required"`
	Bricks  []string `json:"bricks" binding:"required,min=1"`
	Seed    *int64   `json:"seed"`
	StepCap int      `json:"step_cap"`
	Animate bool     `json:"animate"`
}

// SolveResponse is POST /solve's 202 Accepted body: the run has started,
// and the client can poll GET /solve/:run_id or watch GET /ws?run_id=...
// (with ws_token when auth is enabled) to see it finish.
type SolveResponse struct {
	RunID   string `json:"run_id"`
	WSURL   string `json:"ws_url"`
	WSToken string `json:"ws_token,omitempty"`
}

// Solve starts a Solve run in the background and returns its run_id
// immediately.
func (h *SolveHandlers) Solve(c *gin.Context) {
	var req SolveRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	stepCap := req.StepCap
	if stepCap <= 0 {
		stepCap = h.stepCap
	}

	runID := uuid.New().String()
	h.store.Start(runID)

	opts := numbo.Options{StepCap: stepCap, DecayInterval: h.decayInterval, Logger: h.logger}
	if req.Seed != nil {
		opts.Seed = *req.Seed
		opts.SeedSet = true
	}
	opts.Sink = h.buildSink(runID, req.Animate)

	go h.run(runID, req.Target, req.Bricks, opts)

	resp := SolveResponse{RunID: runID}
	if req.Animate && h.observer.EnableWebSocket {
		token, err := h.auth.IssueWSTicket(runID)
		if err != nil {
			h.logger.Warn("failed to issue websocket ticket", "error", err)
		}
		resp.WSURL = "/ws?run_id=" + runID
		resp.WSToken = token
	}

	c.JSON(http.StatusAccepted, resp)
}

func (h *SolveHandlers) run(runID, target string, bricks []string, opts numbo.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := numbo.Solve(ctx, numbo.Input{Target: target, Bricks: bricks}, opts)
	h.store.Finish(runID, result)
	h.hub.CloseRun(runID)

	if h.runRepo == nil {
		return
	}
	run := &models.RunModel{
		Target: target,
		Bricks: models.StringArray(bricks),
		Solved: result.Solved,
		Tree:   result.Tree,
		Steps:  result.Steps,
		Reason: string(result.Reason),
		Seed:   opts.Seed,
	}
	if err := h.runRepo.Create(context.Background(), run); err != nil {
		h.logger.Error("failed to archive run", "run_id", runID, "error", err)
	}
}

// GetRun reports the current status/result of a previously started run.
func (h *SolveHandlers) GetRun(c *gin.Context) {
	runID, ok := getParam(c, "run_id")
	if !ok {
		return
	}
	state, ok := h.store.Get(runID)
	if !ok {
		respondAPIError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, state)
}

// WS upgrades the connection and streams runID's animation events until
// the run finishes or the client disconnects.
func (h *SolveHandlers) WS(c *gin.Context) {
	runID := c.Query("run_id")
	if runID == "" {
		respondAPIError(c, NewAPIError("MISSING_PARAMETER", "run_id is required", http.StatusBadRequest))
		return
	}
	if !h.auth.RequireWSTicket(c, runID) {
		return
	}
	h.hub.ServeHTTP(c.Writer, c.Request, runID)
}

// Healthz reports liveness plus archive-store connectivity when db is
// non-nil (the archive store is optional per SPEC_FULL.md's
// ObserverConfig.EnableArchive).
func Healthz(db *bun.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := storage.Ping(ctx, db); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
