package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	models "AstroChart/internal/domain/models"
	"AstroChart/internal/domain/service"
	icache "AstroChart/internal/service/cache"
	"AstroChart/internal/service/metrics"
	"AstroChart/internal/service/ratelimit"
	xhttp "AstroChart/pkg/http"
	xlogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartAPI is what the handler needs from the use-case layer.
type ChartAPI interface {
	BuildChart(ctx context.Context, req *models.BuildChartRequest) (models.NatalChart, error)
	CompareCharts(ctx context.Context, req *models.CompareChartsRequest) (models.CompatibilityInfo, error)
	Backend() string
}

// ChartsHandler exposes the chart engine over Echo.
type ChartsHandler struct {
	logger   *xlogger.Logger
	svc      ChartAPI
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
}

func NewChartsHandler(logger *xlogger.Logger, svc ChartAPI) *ChartsHandler {
	metrics.Register()
	return &ChartsHandler{
		logger:   logger,
		svc:      svc,
		cacheTTL: 5 * time.Minute,
		rl:       ratelimit.New(5, 2),
	}
}

// SetRateLimit overrides the default per-client limiter.
func (h *ChartsHandler) SetRateLimit(capacity, refillPerSec float64) {
	if capacity > 0 && refillPerSec > 0 {
		h.rl = ratelimit.New(capacity, refillPerSec)
	}
}

// SetCache enables response caching on the build endpoint.
func (h *ChartsHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

func (h *ChartsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/charts")
	g.POST("/build", h.Build)
	g.POST("/compare", h.Compare)
	e.GET("/health", h.Health)
}

func (h *ChartsHandler) Build(c echo.Context) error {
	start := time.Now()
	endpoint := "build"
	defer func() { metrics.ChartLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BuildChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP() + ":build") {
		h.logger.Warn("charts.build rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	cacheKey := buildCacheKey(req)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("charts.build cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug("charts.build cache_hit", xlogger.String("key", cacheKey))
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	chart, err := h.svc.BuildChart(c.Request().Context(), req)
	if err != nil {
		metrics.ChartErrors.WithLabelValues(endpoint).Inc()
		return h.writeError(c, "charts.build", err)
	}

	if h.cache != nil {
		envelope := xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    chart,
		}
		if b, err := json.Marshal(envelope); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("charts.build cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, chart)
}

func (h *ChartsHandler) Compare(c echo.Context) error {
	start := time.Now()
	endpoint := "compare"
	defer func() { metrics.ChartLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.CompareChartsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.svc.CompareCharts(c.Request().Context(), req)
	if err != nil {
		metrics.ChartErrors.WithLabelValues(endpoint).Inc()
		return h.writeError(c, "charts.compare", err)
	}
	metrics.SynastryAspects.Observe(float64(result.AspectCount))
	return xhttp.SuccessResponse(c, result)
}

func (h *ChartsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":  "ok",
		"backend": h.svc.Backend(),
	})
}

// writeError maps domain errors to the response taxonomy: bad input is the
// caller's fault, oracle failures are a bad gateway, anything else stays a
// generic 500 with no internals leaked.
func (h *ChartsHandler) writeError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.Warn(op+" invalid input", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, service.ErrEphemeris):
		h.logger.Error(op+" ephemeris error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("ephemeris computation failed").WithError(err))
	default:
		h.logger.Error(op+" error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
}

func buildCacheKey(req *models.BuildChartRequest) string {
	return fmt.Sprintf("chart:%s|%.6f|%.6f|%.2f", req.DateTime, req.Latitude, req.Longitude, req.TZOffsetHours)
}
