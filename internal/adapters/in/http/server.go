package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ExportWarningsHeader = "X-Export-Warnings"

	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultRequestTimeout = 30 * time.Second
)

// Dispatcher runs a bulk command.
type Dispatcher interface {
	Dispatch(ctx context.Context, command commands.BulkCommand) (commands.DispatchResult, error)
}

// Options tunes request handling.
type Options struct {
	// IdempotencyTTL is how long a keyed command response is replayed.
	IdempotencyTTL time.Duration
	// RequestTimeout bounds each command; ids not reached in time are
	// reported as deadline-exceeded.
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdempotencyTTL <= 0 {
		o.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	return o
}

// Server exposes the admin order routes.
type Server struct {
	dispatcher  Dispatcher
	idempotency ports.IdempotencyStore
	metrics     *metrics.Metrics
	opts        Options
	logger      *slog.Logger
}

// NewServer creates the server. idempotency may be nil, in which case the
// Idempotency-Key header is ignored.
func NewServer(
	dispatcher Dispatcher,
	idempotency ports.IdempotencyStore,
	m *metrics.Metrics,
	opts Options,
	logger *slog.Logger,
) *Server {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dispatcher:  dispatcher,
		idempotency: idempotency,
		metrics:     m,
		opts:        opts.withDefaults(),
		logger:      logger.With("component", "http"),
	}
}

// Register mounts the middleware and every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(MetricsMiddleware(s.metrics))

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	g := e.Group("/admin/orders")
	g.POST("/commands", s.RunCommand)
	g.POST("/production", s.SetProduction)
	g.POST("/production/vinyl", s.fixedCommand(commands.CommandProductionVinyl))
	g.POST("/production/battery", s.fixedCommand(commands.CommandProductionBattery))
	g.POST("/fulfillment", s.SetFulfillment)
	g.POST("/switch-to-delivered", s.fixedCommand(commands.CommandFulfillmentDelivered))
	g.POST("/switch-to-fulfilled", s.fixedCommand(commands.CommandFulfillmentFulfilled))
	g.POST("/switch-to-stock", s.SwitchToStock)
	g.GET("/export-csv", s.exportCommand(commands.CommandExportTabular))
	g.GET("/export-pdf-slips", s.exportCommand(commands.CommandExportPacking))
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RunCommand handles POST /admin/orders/commands.
func (s *Server) RunCommand(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	return s.run(c, req.Command, req.IDs, commands.BulkCommandParams{
		Target: req.Params.Target,
		Day:    int(req.Params.Day),
		Month:  int(req.Params.Month),
	})
}

// SetProduction handles POST /admin/orders/production.
func (s *Server) SetProduction(c echo.Context) error {
	var req targetRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	return s.run(c, commands.CommandProductionSet, req.IDs, commands.BulkCommandParams{Target: req.Target})
}

// SetFulfillment handles POST /admin/orders/fulfillment.
func (s *Server) SetFulfillment(c echo.Context) error {
	var req targetRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	return s.run(c, commands.CommandFulfillmentSet, req.IDs, commands.BulkCommandParams{Target: req.Target})
}

// SwitchToStock handles POST /admin/orders/switch-to-stock.
func (s *Server) SwitchToStock(c echo.Context) error {
	var req stockWaitRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	return s.run(c, commands.CommandStockWaitSchedule, req.IDs, commands.BulkCommandParams{
		Day:   int(req.Day),
		Month: int(req.Month),
	})
}

func (s *Server) fixedCommand(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req idsRequest
		if err := c.Bind(&req); err != nil {
			return s.badRequest(c, err)
		}
		return s.run(c, name, req.IDs, commands.BulkCommandParams{})
	}
}

func (s *Server) exportCommand(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.run(c, name, queryIDs(c), commands.BulkCommandParams{})
	}
}

// queryIDs reads ids given either as repeated parameters or comma-separated.
func queryIDs(c echo.Context) []string {
	var ids []string
	for _, v := range c.QueryParams()["ids"] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}

func (s *Server) run(c echo.Context, name string, rawIDs []string, params commands.BulkCommandParams) error {
	ctx := c.Request().Context()

	key := c.Request().Header.Get(IdempotencyKeyHeader)
	useKey := key != "" && s.idempotency != nil && c.Request().Method == http.MethodPost
	if useKey {
		key = c.Request().Method + " " + c.Path() + " " + key
		cached, ok, err := s.idempotency.Load(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
		} else if ok {
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	ids, err := kernel.ParseOrderIDs(rawIDs)
	if err != nil {
		return s.fail(c, name, err)
	}
	command, err := commands.NewBulkCommand(name, ids, params)
	if err != nil {
		return s.fail(c, name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	s.metrics.BulkCommands.WithLabelValues(name).Inc()
	res, err := s.dispatcher.Dispatch(ctx, command)
	if err != nil {
		return s.fail(c, name, err)
	}

	if res.Export != nil {
		s.metrics.Exports.WithLabelValues(name, "ok").Inc()
		if len(res.Export.Warnings) > 0 {
			c.Response().Header().Set(ExportWarningsHeader, strings.Join(res.Export.Warnings, "; "))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", res.Export.Filename))
		return c.Blob(http.StatusOK, res.Export.ContentType, res.Export.Body)
	}

	if res.Result == nil {
		return s.fail(c, name, errors.New("dispatcher returned no result"))
	}

	s.recordOutcomes(name, *res.Result)
	level := slog.LevelInfo
	if res.Result.HasFailures() {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "bulk command finished",
		"command", name,
		"succeeded", len(res.Result.Succeeded),
		"failed", len(res.Result.Failed),
	)

	body, err := json.Marshal(toCommandResponse(name, *res.Result))
	if err != nil {
		return s.fail(c, name, err)
	}
	if useKey {
		// The request context may already be past its deadline.
		if err = s.idempotency.Save(context.WithoutCancel(ctx), key, body, s.opts.IdempotencyTTL); err != nil {
			s.logger.WarnContext(ctx, "idempotency save failed", "error", err)
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) recordOutcomes(name string, result commands.BulkResult) {
	if n := len(result.Succeeded); n > 0 {
		s.metrics.OrderOutcomes.WithLabelValues(name, "ok").Add(float64(n))
	}
	for _, f := range result.Failed {
		s.metrics.OrderOutcomes.WithLabelValues(name, string(f.Reason)).Inc()
	}
}

func (s *Server) fail(c echo.Context, name string, err error) error {
	status, body := newErrorResponse(err)
	if name == commands.CommandExportTabular || name == commands.CommandExportPacking {
		s.metrics.Exports.WithLabelValues(name, body.Code).Inc()
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "bulk command failed", "command", name, "error", err)
	} else {
		s.logger.DebugContext(c.Request().Context(), "bulk command rejected", "command", name, "code", body.Code, "error", err)
	}
	return c.JSON(status, body)
}

func (s *Server) badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Code:    string(commands.ReasonInvalidArgument),
		Message: fmt.Sprintf("invalid request body: %v", err),
	})
}
