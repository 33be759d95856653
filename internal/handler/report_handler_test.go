package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/service"
	"chai-adda-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reportCall struct {
	storeID  uuid.UUID
	from, to time.Time
}

type stubReportService struct {
	calls []reportCall
	err   error
}

func (s *stubReportService) BuildRevenueReport(_ context.Context, storeID uuid.UUID, from, to time.Time) (*model.RevenueSummary, error) {
	s.calls = append(s.calls, reportCall{storeID, from, to})
	if s.err != nil {
		return nil, s.err
	}
	return &model.RevenueSummary{
		TotalRevenue: decimal.NewFromInt(150),
		TotalIncome:  decimal.NewFromInt(150),
		TotalExpense: decimal.Zero,
		Net:          decimal.NewFromInt(150),
		ByAccount:    []model.AccountRevenue{},
		DailyRevenue: []model.DailyRevenue{},
	}, nil
}

func (s *stubReportService) BuildOrderReport(_ context.Context, storeID uuid.UUID, from, to time.Time) (*model.OrderSummary, error) {
	s.calls = append(s.calls, reportCall{storeID, from, to})
	if s.err != nil {
		return nil, s.err
	}
	return &model.OrderSummary{TopItems: map[string]int{}, RecentTrends: []model.DailyOrderCount{}}, nil
}

func (s *stubReportService) BuildStockReport(_ context.Context, storeID uuid.UUID) (*model.StockSummary, error) {
	s.calls = append(s.calls, reportCall{storeID: storeID})
	if s.err != nil {
		return nil, s.err
	}
	return &model.StockSummary{
		OutOfStockItems: 1,
		TotalItems:      1,
		Items: []model.StockItem{
			{ID: uuid.New(), Name: "Cheese Slices", Status: model.StockOut, Type: model.StockItemRawMaterial},
		},
	}, nil
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type reportFixture struct {
	app     *fiber.App
	stub    *stubReportService
	reports *ReportHandler
	tokens  *jwt.Manager
	storeID uuid.UUID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	stub := &stubReportService{}
	tokens := jwt.NewManager("handler-test-secret", time.Hour)
	reports := NewReportHandler(stub, zap.NewNop(), time.Second, 7)
	reports.now = func() time.Time { return fixedNow }

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	RegisterRoutes(app, Handlers{Reports: reports, Tokens: tokens})

	return &reportFixture{app: app, stub: stub, reports: reports, tokens: tokens, storeID: uuid.New()}
}

func (f *reportFixture) get(t *testing.T, target string, role model.Role) (*http.Response, string) {
	t.Helper()
	token, err := f.tokens.GenerateToken(f.storeID, "KOS-1234", string(role))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRevenueReport_DefaultsToOwnStoreAndLastWeek(t *testing.T) {
	f := newReportFixture(t)

	resp, body := f.get(t, "/api/v1/reports/revenue", model.RoleOwner)

	require.Equal(t, 200, resp.StatusCode, body)
	require.Len(t, f.stub.calls, 1)
	call := f.stub.calls[0]
	assert.Equal(t, f.storeID, call.storeID)
	assert.Equal(t, fixedNow.Add(time.Minute-time.Nanosecond), call.to)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), call.from)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, float64(150), got["totalRevenue"])
	assert.Equal(t, []any{}, got["dailyRevenue"])
}

func TestReports_DefaultWindowIsStableWithinAMinute(t *testing.T) {
	f := newReportFixture(t)
	clock := fixedNow.Add(5 * time.Second)
	f.reports.now = func() time.Time { return clock }

	resp, body := f.get(t, "/api/v1/reports/orders", model.RoleOwner)
	require.Equal(t, 200, resp.StatusCode, body)
	clock = fixedNow.Add(47*time.Second + 300*time.Millisecond)
	resp, body = f.get(t, "/api/v1/reports/orders", model.RoleOwner)
	require.Equal(t, 200, resp.StatusCode, body)

	require.Len(t, f.stub.calls, 2)
	first, second := f.stub.calls[0], f.stub.calls[1]
	assert.Equal(t, first.from, second.from)
	assert.Equal(t, first.to, second.to)
	assert.True(t, second.to.After(clock), "records written this minute stay inside the window")
}

func TestRevenueReport_ParsesWindow(t *testing.T) {
	f := newReportFixture(t)

	resp, body := f.get(t, "/api/v1/reports/revenue?from=2024-03-01&to=2024-03-07&storeId="+f.storeID.String(), model.RoleOwner)
	require.Equal(t, 200, resp.StatusCode, body)

	call := f.stub.calls[0]
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), call.from)
	assert.Equal(t, time.Date(2024, 3, 7, 23, 59, 59, 999999999, time.UTC), call.to)

	resp, body = f.get(t, "/api/v1/reports/orders?from=2024-03-01T06:00:00Z&to=2024-03-01T18:00:00Z", model.RoleOwner)
	require.Equal(t, 200, resp.StatusCode, body)
	call = f.stub.calls[1]
	assert.Equal(t, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), call.from)
	assert.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), call.to.UTC())

	resp, body = f.get(t, "/api/v1/reports/orders?range=1m", model.RoleOwner)
	require.Equal(t, 200, resp.StatusCode, body)
	assert.Equal(t, fixedNow.AddDate(0, -1, 0), f.stub.calls[2].from)
}

func TestReports_RejectBadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
		role   model.Role
		want   int
	}{
		{"malformed from", "/api/v1/reports/revenue?from=yesterday", model.RoleOwner, 400},
		{"unknown range", "/api/v1/reports/orders?range=2w", model.RoleOwner, 400},
		{"malformed store", "/api/v1/reports/stock?storeId=abc", model.RoleOwner, 400},
		{"another store", "/api/v1/reports/stock?storeId=" + uuid.NewString(), model.RoleOwner, 403},
		{"kitchen cannot see revenue", "/api/v1/reports/revenue", model.RoleKitchen, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReportFixture(t)
			resp, body := f.get(t, tt.target, tt.role)
			assert.Equal(t, tt.want, resp.StatusCode, body)
			assert.Empty(t, f.stub.calls, "service must not be called")
		})
	}
}

func TestReports_MapServiceErrors(t *testing.T) {
	f := newReportFixture(t)

	f.stub.err = service.ErrInvalidWindow
	resp, body := f.get(t, "/api/v1/reports/revenue?from=2024-03-07&to=2024-03-01", model.RoleOwner)
	assert.Equal(t, 400, resp.StatusCode)
	assert.JSONEq(t, `{"error":"from must not be after to"}`, body)

	f.stub.err = errors.New("pq: connection refused")
	resp, body = f.get(t, "/api/v1/reports/orders", model.RoleOwner)
	assert.Equal(t, 500, resp.StatusCode)
	assert.NotContains(t, body, "connection refused")

	f.stub.err = context.DeadlineExceeded
	resp, _ = f.get(t, "/api/v1/reports/stock", model.RoleCashier)
	assert.Equal(t, 504, resp.StatusCode)
}

func TestStockReport_RendersNullStockForRawMaterials(t *testing.T) {
	f := newReportFixture(t)

	resp, body := f.get(t, "/api/v1/reports/stock", model.RoleKitchen)

	require.Equal(t, 200, resp.StatusCode, body)
	assert.Contains(t, body, `"stock":null`)
	assert.Contains(t, body, `"outOfStockItems":1`)
	assert.Equal(t, f.storeID, f.stub.calls[0].storeID)
}

func TestReports_RequireToken(t *testing.T) {
	f := newReportFixture(t)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/api/v1/reports/stock", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	f := newReportFixture(t)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":{"message":"Cannot GET /nope"}}`, string(body))
}

func TestHealthCheck(t *testing.T) {
	f := newReportFixture(t)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Health Check ok!", string(body))
}
