package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"courierquest/internal/app/ports"
	"courierquest/internal/app/session"
)

// Handler exposes the simulation over HTTP. One handler serves one
// session; every request is serialized by the simulation's own lock.
type Handler struct {
	Sim    *session.Simulation
	Scores ports.ScoreStore
	Saves  ports.SaveStore
	KPI    kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/session")
	api.POST("/initialize", h.initialize)
	api.POST("/tick", h.tick)
	api.POST("/command", h.command)
	api.GET("/state", h.state)

	s.GET("/api/scores", h.scores)
	s.GET("/api/saves/:slot/metadata", h.saveMetadata)
	s.GET("/ops/kpi", h.kpi)
}

type tickRequest struct {
	DT float64 `json:"dt"`
}

func (h Handler) initialize(c context.Context, ctx *app.RequestContext) {
	if err := h.Sim.Initialize(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Sim.Snapshot())
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	var body tickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.DT <= 0 || body.DT > 60 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_dt", "dt must be in (0, 60]")
		return
	}
	h.Sim.Tick(c, body.DT)
	ctx.JSON(consts.StatusOK, h.Sim.Snapshot())
}

func (h Handler) command(c context.Context, ctx *app.RequestContext) {
	var cmd session.Command
	if err := decodeJSON(ctx, &cmd); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	res, err := h.Sim.Apply(c, cmd)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"applied": res.Applied,
		"message": res.Message,
		"state":   h.Sim.Snapshot(),
	})
}

func (h Handler) state(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Sim.Snapshot())
}

func (h Handler) scores(c context.Context, ctx *app.RequestContext) {
	if h.Scores == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "score store not configured")
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"scores": h.Scores.List(c)})
}

func (h Handler) saveMetadata(c context.Context, ctx *app.RequestContext) {
	if h.Saves == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "save store not configured")
		return
	}
	slot, err := strconv.Atoi(ctx.Param("slot"))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_slot", "slot must be an integer")
		return
	}
	meta, ok := h.Saves.Metadata(c, slot)
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", "no save in slot")
		return
	}
	ctx.JSON(consts.StatusOK, meta)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, session.ErrNotInitialized):
		writeErrorBody(ctx, consts.StatusConflict, "session_not_initialized", err.Error())
	case errors.Is(err, session.ErrInitFailed):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "initialization_failed", err.Error())
	case errors.Is(err, session.ErrUnknownCommand):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_command", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
