package handler

import (
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"tax-engine/internal/engine"
	"tax-engine/internal/model"
)

var log = logrus.WithField("module", "handler")

type route struct {
	method string
	handle fasthttp.RequestHandler
}

// Handler routes calculation requests to the engine.
type Handler struct {
	engine *engine.Engine
	routes map[string]route
}

func New(e *engine.Engine) *Handler {
	h := &Handler{engine: e}
	h.routes = map[string]route{
		"/breakdown": {fasthttp.MethodPost, h.handleBreakdown},
		"/batch":     {fasthttp.MethodPost, h.handleBatch},
		"/bracket":   {fasthttp.MethodGet, h.handleBracket},
		"/schedule":  {fasthttp.MethodGet, h.handleSchedule},
	}
	return h
}

// Handle is the fasthttp entry point.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	r, ok := h.routes[path]
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "Unknown path: "+path)
		return
	}
	if string(ctx.Method()) != r.method {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	r.handle(ctx)
	log.Debugf("%s %s -> %d", ctx.Method(), path, ctx.Response.StatusCode())
}

func (h *Handler) handleBreakdown(ctx *fasthttp.RequestCtx) {
	var req model.BreakdownRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	writeCalculation(ctx, h.engine.Breakdown(ctx, &req))
}

func (h *Handler) handleBatch(ctx *fasthttp.RequestCtx) {
	var req model.BatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	writeCalculation(ctx, h.engine.Batch(ctx, &req))
}

func (h *Handler) handleBracket(ctx *fasthttp.RequestCtx) {
	raw := string(ctx.QueryArgs().Peek("income"))
	if raw == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "income query parameter is required")
		return
	}
	income, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "income must be a number")
		return
	}
	info, err := h.engine.BracketInfo(income)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, info)
}

func (h *Handler) handleSchedule(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, h.engine.Schedule())
}

func writeCalculation(ctx *fasthttp.RequestCtx, resp *model.CalculationResponse) {
	status := fasthttp.StatusOK
	if resp.CalculationMetadata.CalculationOutcome == model.OutcomeFailure {
		status = fasthttp.StatusUnprocessableEntity
	}
	writeJSON(ctx, status, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("encode response: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
