package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"StockPilot/internal/domain/models"
	xhttp "StockPilot/pkg/http"

	"github.com/labstack/echo/v4"
)

func bindStockData(t *testing.T, target string) (models.StockDataRequest, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var r models.StockDataRequest
	return r, xhttp.ReadAndValidateRequest(c, &r)
}

func TestStockDataRequestPassesUnknownPeriod(t *testing.T) {
	r, verr := bindStockData(t, "/api/get_stock_data?symbol=MSFT&period=bogus")
	if verr != nil {
		t.Fatalf("unknown period must bind, got validation error: %v", verr)
	}
	// The chart usecase owns the fallback; validation must not eat it.
	if r.Period != "bogus" {
		t.Fatalf("period = %q, want passthrough", r.Period)
	}
}

func TestStockDataRequestDefaultsPeriod(t *testing.T) {
	r, verr := bindStockData(t, "/api/get_stock_data?symbol=MSFT")
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if r.Period != "1y" {
		t.Fatalf("period = %q, want default 1y", r.Period)
	}
}

func TestStockDataRequestRequiresSymbol(t *testing.T) {
	if _, verr := bindStockData(t, "/api/get_stock_data?period=1d"); verr == nil {
		t.Fatalf("missing symbol must fail validation")
	}
}
