package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	staticlore "sanguo/internal/adapter/lore/static"
	"sanguo/internal/app/action"
	"sanguo/internal/app/lore"
	"sanguo/internal/app/observe"
	"sanguo/internal/app/ports"
	"sanguo/internal/app/replay"
	"sanguo/internal/app/status"
	"sanguo/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	ActionUC  action.UseCase
	StatusUC  status.UseCase
	ObserveUC observe.UseCase
	ReplayUC  replay.UseCase
	LoreUC    lore.UseCase
	KPI       kpiSnapshotProvider

	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))
	s.GET("/state", h.state)
	s.POST("/act", h.act)
	s.GET("/observe", h.observe)
	s.GET("/replay", h.replay)
	s.GET("/lore", h.lore)
	s.POST("/lore/retrieve", h.retrieve)
	s.GET("/ops/kpi", h.kpi)
}

type actResponse struct {
	Accepted bool         `json:"accepted"`
	Rule     world.Rule   `json:"rule,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	State    *world.State `json:"state,omitempty"`
}

type retrieveRequest struct {
	Query      string `json:"query"`
	TimeCursor *int   `json:"time_cursor,omitempty"`
	K          int    `json:"k,omitempty"`
	Book       string `json:"book,omitempty"`
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) act(c context.Context, ctx *app.RequestContext) {
	body := ctx.Request.Body()
	if err := checkActionShape(body); err != nil {
		if errors.Is(err, ErrInvalidJSON) {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
		ctx.JSON(consts.StatusBadRequest, actResponse{Rule: world.RuleSchema, Reason: err.Error()})
		return
	}

	var payload world.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	res, err := h.ActionUC.Execute(c, payload)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !res.Accepted {
		code := consts.StatusConflict
		if res.Rule == world.RuleSchema {
			code = consts.StatusBadRequest
		}
		ctx.JSON(code, actResponse{Rule: res.Rule, Reason: res.Reason})
		return
	}
	ctx.JSON(consts.StatusOK, actResponse{Accepted: true, State: &res.State})
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Execute(c, observe.Request{Actor: string(ctx.Query("actor"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit := 0
	if raw := strings.TrimSpace(string(ctx.Query("limit"))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, fmt.Errorf("%w: limit %q", replay.ErrInvalidRequest, raw))
			return
		}
		limit = n
	}
	rejectedOnly, _ := strconv.ParseBool(string(ctx.Query("rejected")))

	resp, err := h.ReplayUC.Execute(c, replay.Request{Limit: limit, RejectedOnly: rejectedOnly})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) lore(c context.Context, ctx *app.RequestContext) {
	resp, err := h.LoreUC.Excerpt(c, lore.ExcerptRequest{Book: string(ctx.Query("book"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) retrieve(c context.Context, ctx *app.RequestContext) {
	var body retrieveRequest
	if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.LoreUC.Retrieve(c, lore.RetrieveRequest{
		Query:      body.Query,
		Book:       body.Book,
		K:          body.K,
		TimeCursor: body.TimeCursor,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
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

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, lore.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, staticlore.ErrInvalidBookPath):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_book_path", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrStorageWrite):
		writeErrorBody(ctx, consts.StatusInternalServerError, "storage_write_failed", "world state could not be saved")
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
