package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"covidtracker/internal/engine"
	"covidtracker/internal/models"
	"covidtracker/internal/state"
	"covidtracker/internal/view"
)

type Handler struct {
	dash      *state.Dashboard
	log       *zap.Logger
	rateLimit rate.Limit
}

func NewHandler(dash *state.Dashboard, log *zap.Logger, rateLimit float64) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{dash: dash, log: log, rateLimit: rate.Limit(rateLimit)}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Region changes hit the upstream API; metric changes and reads do not.
	limited := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(h.rateLimit))

	e.GET("/", h.GetDashboard)
	e.POST("/region", h.PostRegion, limited)
	e.POST("/metric", h.PostMetric)
	e.GET("/health", h.GetHealth)

	api := e.Group("/api")
	api.GET("/state", h.GetState)
	api.GET("/regions", h.GetRegions)
	api.GET("/table", h.GetTable)
	api.GET("/map", h.GetMap)
	api.GET("/graph", h.GetGraph)
	api.GET("/events", h.GetEvents)
	api.PUT("/region", h.PutRegion, limited)
	api.PUT("/metric", h.PutMetric)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func loading(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"status": "loading",
	})
}

func (h *Handler) GetDashboard(c echo.Context) error {
	return c.Render(http.StatusOK, view.DashboardTemplate, view.Build(h.dash.Store().Snapshot()))
}

func (h *Handler) GetHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// GetState returns 503 until the country list has loaded once.
func (h *Handler) GetState(c echo.Context) error {
	s := h.dash.Store().Snapshot()
	if !s.Ready() {
		return loading(c)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetRegions(c echo.Context) error {
	s := h.dash.Store().Snapshot()
	if !s.Ready() {
		return loading(c)
	}
	regions := make([]models.Region, 0, s.Countries.Len()+1)
	regions = append(regions, models.Region{Name: "Worldwide", Code: models.WorldwideCode})
	regions = append(regions, s.Regions...)
	return c.JSON(http.StatusOK, regions)
}

func (h *Handler) GetTable(c echo.Context) error {
	s := h.dash.Store().Snapshot()
	if !s.Ready() {
		return loading(c)
	}
	rows := s.Table
	total := len(rows)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		return c.JSON(http.StatusOK, []models.TableRow{})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   rows[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetMap(c echo.Context) error {
	s := h.dash.Store().Snapshot()
	if !s.Ready() {
		return loading(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"viewport": s.Viewport,
		"metric":   s.Metric,
		"circles":  engine.ToMapCircles(s.Countries.Records, s.Metric),
	})
}

func (h *Handler) GetGraph(c echo.Context) error {
	s := h.dash.Store().Snapshot()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"metric": s.Metric,
		"status": s.HistoryOp.Status,
		"points": engine.BuildGraph(s.Timeline, s.Metric),
	})
}

type regionRequest struct {
	Code string `json:"code" form:"code"`
}

type metricRequest struct {
	Metric string `json:"metric" form:"metric"`
}

func (h *Handler) PutRegion(c echo.Context) error {
	var req regionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	err := h.dash.SelectRegion(c.Request().Context(), req.Code)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, h.dash.Store().Snapshot())
	case errors.Is(err, state.ErrUnknownRegion):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, state.ErrSuperseded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}

func (h *Handler) PutMetric(c echo.Context) error {
	var req metricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.dash.SelectMetric(models.Metric(req.Metric)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.dash.Store().Snapshot())
}

// PostRegion backs the selector form. Failures are already recorded in the
// state and shown as a banner, so the browser is always sent back to /.
func (h *Handler) PostRegion(c echo.Context) error {
	var req regionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := h.dash.SelectRegion(c.Request().Context(), req.Code); err != nil && !errors.Is(err, state.ErrSuperseded) {
		h.log.Info("region change failed", zap.String("code", req.Code), zap.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) PostMetric(c echo.Context) error {
	var req metricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := h.dash.SelectMetric(models.Metric(req.Metric)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
