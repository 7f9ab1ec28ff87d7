package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	svcmetrics "StockPilot/internal/service/metrics"
	"StockPilot/internal/service/ratelimit"
	"StockPilot/internal/usecase"
	"StockPilot/pkg/cache"
	xhttp "StockPilot/pkg/http"
	xlogger "StockPilot/pkg/logger"
	"StockPilot/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// HandlerConfig holds response-cache TTLs and the live stream push period.
type HandlerConfig struct {
	AdviseTTL    time.Duration
	ChartTTL     time.Duration
	QuoteTTL     time.Duration
	NewsTTL      time.Duration
	LiveInterval time.Duration
}

// StocksEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type StocksEchoHandler struct {
	logger   *xlogger.Logger
	advisor  *usecase.Advisor
	chart    *usecase.Chart
	info     *usecase.TodayInfo
	news     *usecase.News
	quotes   drepo.QuoteProvider
	cache    cache.Service
	limiter  *ratelimit.Limiter
	cfg      HandlerConfig
	upgrader websocket.Upgrader
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	advisor *usecase.Advisor,
	chart *usecase.Chart,
	info *usecase.TodayInfo,
	news *usecase.News,
	quotes drepo.QuoteProvider,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	cfg HandlerConfig,
) *StocksEchoHandler {
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 5 * time.Second
	}
	return &StocksEchoHandler{
		logger:  logger,
		advisor: advisor,
		chart:   chart,
		info:    info,
		news:    news,
		quotes:  quotes,
		cache:   cacheSvc,
		limiter: limiter,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	svcmetrics.Register()
	g := e.Group("/api")
	g.GET("/buy_stock", h.BuyStock)
	g.GET("/get_stock_data", h.StockData)
	g.GET("/today_stock_info", h.TodayInfo)
	g.GET("/news", h.News)
	g.GET("/live", h.Live)
}

// BuyStock runs the walk-forward backtest for a symbol and returns the
// buy decision plus its historical precision. Backtests are expensive, so
// results are cached and each symbol is token-bucket limited.
func (h *StocksEchoHandler) BuyStock(c echo.Context) error {
	start := time.Now()
	defer h.observe("buy_stock", start)

	req := &models.AdviseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	key := "stockpilot:advise:" + symbol
	var cached models.BacktestSummary
	if h.cache != nil && h.cache.Get(c.Request().Context(), key, &cached) == nil {
		svcmetrics.CacheHits.WithLabelValues("buy_stock").Inc()
		return xhttp.SuccessResponse(c, cached)
	}

	if h.limiter != nil && !h.limiter.Allow("advise:"+symbol, 3, 0.2) {
		svcmetrics.EndpointErrors.WithLabelValues("buy_stock").Inc()
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(
			"ERR_RATE_LIMITED", "", "too many backtests for this symbol, retry shortly",
			http.StatusTooManyRequests))
	}

	res, err := h.advisor.Advise(c.Request().Context(), symbol)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("buy_stock").Inc()
		h.logger.Error("advise usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(symbol, err))
	}

	if h.cache != nil {
		if cerr := h.cache.Set(c.Request().Context(), key, res, h.cfg.AdviseTTL); cerr != nil {
			h.logger.Warn("cache advise result", xlogger.Error(cerr))
		}
	}
	return xhttp.SuccessResponse(c, res)
}

// StockData returns the trailing close series for the requested period.
func (h *StocksEchoHandler) StockData(c echo.Context) error {
	start := time.Now()
	defer h.observe("get_stock_data", start)

	req := &models.StockDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	key := fmt.Sprintf("stockpilot:chart:%s:%s", symbol, req.Period)
	var cached models.ChartSeries
	if h.cache != nil && h.cache.Get(c.Request().Context(), key, &cached) == nil {
		svcmetrics.CacheHits.WithLabelValues("get_stock_data").Inc()
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.chart.Series(c.Request().Context(), symbol, req.Period)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("get_stock_data").Inc()
		h.logger.Error("chart usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(symbol, err))
	}

	if h.cache != nil {
		_ = h.cache.Set(c.Request().Context(), key, res, h.cfg.ChartTTL)
	}
	return xhttp.SuccessResponse(c, res)
}

// TodayInfo returns the latest-day snapshot for a symbol.
func (h *StocksEchoHandler) TodayInfo(c echo.Context) error {
	start := time.Now()
	defer h.observe("today_stock_info", start)

	req := &models.TodayInfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	key := "stockpilot:quote:" + symbol
	var cached models.Quote
	if h.cache != nil && h.cache.Get(c.Request().Context(), key, &cached) == nil {
		svcmetrics.CacheHits.WithLabelValues("today_stock_info").Inc()
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.info.Get(c.Request().Context(), symbol)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("today_stock_info").Inc()
		h.logger.Error("quote usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(symbol, err))
	}

	if h.cache != nil {
		_ = h.cache.Set(c.Request().Context(), key, res, h.cfg.QuoteTTL)
	}
	return xhttp.SuccessResponse(c, res)
}

// News returns recent articles mentioning the company.
func (h *StocksEchoHandler) News(c echo.Context) error {
	start := time.Now()
	defer h.observe("news", start)

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := "stockpilot:news:" + req.Name
	var cached []models.Article
	if h.cache != nil && h.cache.Get(c.Request().Context(), key, &cached) == nil {
		svcmetrics.CacheHits.WithLabelValues("news").Inc()
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.news.Recent(c.Request().Context(), req.Name)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("news").Inc()
		h.logger.Error("news usecase error", xlogger.String("name", req.Name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		_ = h.cache.Set(c.Request().Context(), key, res, h.cfg.NewsTTL)
	}
	return xhttp.SuccessResponse(c, res)
}

// Live upgrades the connection and pushes the latest quote for a symbol
// until the client disconnects.
func (h *StocksEchoHandler) Live(c echo.Context) error {
	req := &models.LiveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("websocket upgrade failed"))
	}
	defer conn.Close()

	ctx := c.Request().Context()
	done := make(chan struct{})

	// Reader only detects close; inbound frames are ignored.
	go func() {
		defer close(done)
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.cfg.LiveInterval)
	defer ticker.Stop()

	push := func() bool {
		quote, qerr := h.quotes.Quote(ctx, symbol)
		if qerr != nil {
			h.logger.Warn("live quote fetch failed", xlogger.String("symbol", symbol), xlogger.Error(qerr))
			return true
		}
		if werr := conn.WriteJSON(quote); werr != nil {
			return false
		}
		return true
	}

	if !push() {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-ticker.C:
			if !push() {
				return nil
			}
		}
	}
}

func (h *StocksEchoHandler) observe(endpoint string, start time.Time) {
	svcmetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// mapDomainError maps pipeline sentinels to actionable HTTP errors.
func mapDomainError(symbol string, err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientHistory):
		return xhttp.NewAppError("ERR_INSUFFICIENT_HISTORY", "symbol",
			fmt.Sprintf("not enough price history for %s to run a backtest", symbol),
			http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, models.ErrUndefinedPrecision):
		return xhttp.NewAppError("ERR_NO_BUY_SIGNALS", "symbol",
			fmt.Sprintf("the model never signalled a buy for %s, precision is undefined", symbol),
			http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, models.ErrNoPredictions):
		return xhttp.NewAppError("ERR_INSUFFICIENT_HISTORY", "symbol",
			fmt.Sprintf("backtest for %s produced no predictions", symbol),
			http.StatusUnprocessableEntity).WithError(err)
	default:
		return err
	}
}
