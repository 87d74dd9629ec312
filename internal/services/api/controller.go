package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Controller struct {
	log *zap.Logger
	uc  *Usecase
}

func NewController(log *zap.Logger, uc *Usecase) *Controller {
	return &Controller{log: log.With(zap.String("component", "api.groups")), uc: uc}
}

type errorBody struct {
	Error   string `json:"error"`
	TraceID string `json:"traceId,omitempty"`
}

// EvaluateGroup handles POST /v1/groups/:id/evaluate.
func (c *Controller) EvaluateGroup(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorBody{Error: "invalid group id"})
	}
	out, err := c.uc.Evaluate(ctx.Request().Context(), id)
	if err != nil {
		return c.fail(ctx, id, err)
	}
	return ctx.JSON(http.StatusOK, out)
}

// GroupHistory handles GET /v1/groups/:id/history?page=&limit=.
func (c *Controller) GroupHistory(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorBody{Error: "invalid group id"})
	}
	page := queryInt(ctx, "page", defaultPage)
	limit := queryInt(ctx, "limit", defaultLimit)

	out, err := c.uc.History(ctx.Request().Context(), id, page, limit)
	if err != nil {
		return c.fail(ctx, id, err)
	}
	return ctx.JSON(http.StatusOK, out)
}

func (c *Controller) fail(ctx echo.Context, id uuid.UUID, err error) error {
	code := StatusFor(err)
	log := obs.WithTrace(ctx.Request().Context(), c.log).With(zap.String("group_id", id.String()))
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		return ctx.JSON(code, errorBody{Error: "internal error", TraceID: obs.TraceID(ctx.Request().Context())})
	}
	log.Info("request rejected", zap.Int("status", code), zap.Error(err))
	return ctx.JSON(code, errorBody{Error: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case engine.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrEvaluationInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(ctx echo.Context, name string, def int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
