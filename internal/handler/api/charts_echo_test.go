package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "AstroChart/internal/domain/models"
	"AstroChart/internal/domain/service"
	icache "AstroChart/internal/service/cache"
	xlogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubChartAPI struct {
	chart      models.NatalChart
	info       models.CompatibilityInfo
	buildErr   error
	compareErr error
	buildCalls int
}

func (s *stubChartAPI) BuildChart(_ context.Context, _ *models.BuildChartRequest) (models.NatalChart, error) {
	s.buildCalls++
	if s.buildErr != nil {
		return models.NatalChart{}, s.buildErr
	}
	return s.chart, nil
}

func (s *stubChartAPI) CompareCharts(_ context.Context, _ *models.CompareChartsRequest) (models.CompatibilityInfo, error) {
	if s.compareErr != nil {
		return models.CompatibilityInfo{}, s.compareErr
	}
	return s.info, nil
}

func (s *stubChartAPI) Backend() string { return "stub" }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestServer(t *testing.T, stub *stubChartAPI) (*echo.Echo, *ChartsHandler) {
	t.Helper()
	h := NewChartsHandler(testLogger(t), stub)
	h.SetRateLimit(100, 100)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, h
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func sampleChart() models.NatalChart {
	house := 1
	return models.NatalChart{
		Ascendant: 0,
		Midheaven: 270,
		Planets: map[string]models.PlanetPosition{
			"Sun": {Name: "Sun", Longitude: 10, Sign: "Aries", DegreeInSign: 10, House: &house},
		},
		Houses:  []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330},
		Aspects: []models.Aspect{},
	}
}

func TestBuildSuccess(t *testing.T) {
	stub := &stubChartAPI{chart: sampleChart()}
	e, _ := newTestServer(t, stub)

	rec := doJSON(e, http.MethodPost, "/charts/build",
		`{"date_time":"2000-01-01T12:00:00","latitude":40.7,"longitude":-74.0,"tz_offset_hours":-5}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200 (body %s)", env.Status, rec.Body.String())
	}
	var chart models.NatalChart
	if err := json.Unmarshal(env.Data, &chart); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(chart.Houses) != 12 || chart.Planets["Sun"].Sign != "Aries" {
		t.Fatalf("unexpected chart payload: %s", env.Data)
	}
}

func TestBuildValidation(t *testing.T) {
	stub := &stubChartAPI{chart: sampleChart()}
	e, _ := newTestServer(t, stub)

	cases := []string{
		`{}`, // missing date_time
		`{"date_time":"2000-01-01T12:00:00","latitude":95}`,   // latitude out of range
		`{"date_time":"2000-01-01T12:00:00","longitude":200}`, // longitude out of range
		`{"date_time":"2000-01-01T12:00:00","tz_offset_hours":20}`,
	}
	for _, body := range cases {
		rec := doJSON(e, http.MethodPost, "/charts/build", body)
		env := decodeEnvelope(t, rec)
		if env.Status != http.StatusBadRequest {
			t.Fatalf("body %s: envelope status = %d, want 400", body, env.Status)
		}
	}
	if stub.buildCalls != 0 {
		t.Fatalf("service must not be called on validation failure, got %d calls", stub.buildCalls)
	}
}

func TestBuildInvalidInputError(t *testing.T) {
	stub := &stubChartAPI{buildErr: fmt.Errorf("%w: bad date", service.ErrInvalidInput)}
	e, _ := newTestServer(t, stub)

	rec := doJSON(e, http.MethodPost, "/charts/build", `{"date_time":"99/99/9999"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", env.Status)
	}
}

func TestBuildEphemerisError(t *testing.T) {
	stub := &stubChartAPI{buildErr: fmt.Errorf("%w: sidecar down", service.ErrEphemeris)}
	e, _ := newTestServer(t, stub)

	rec := doJSON(e, http.MethodPost, "/charts/build", `{"date_time":"2000-01-01T12:00:00"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadGateway {
		t.Fatalf("envelope status = %d, want 502", env.Status)
	}
}

func TestBuildCacheHit(t *testing.T) {
	stub := &stubChartAPI{chart: sampleChart()}
	e, h := newTestServer(t, stub)
	h.SetCache(icache.NewTTLCache(), time.Minute)

	body := `{"date_time":"2000-01-01T12:00:00","latitude":40.7,"longitude":-74.0}`
	first := doJSON(e, http.MethodPost, "/charts/build", body)
	second := doJSON(e, http.MethodPost, "/charts/build", body)

	if stub.buildCalls != 1 {
		t.Fatalf("expected 1 service call with cache, got %d", stub.buildCalls)
	}
	// Trailing whitespace differs between the serializer paths; the
	// payloads themselves must match.
	if strings.TrimSpace(first.Body.String()) != strings.TrimSpace(second.Body.String()) {
		t.Fatalf("cache hit must serve the identical payload")
	}
}

func TestBuildRateLimit(t *testing.T) {
	stub := &stubChartAPI{chart: sampleChart()}
	h := NewChartsHandler(testLogger(t), stub)
	h.SetRateLimit(2, 0.001)
	e := echo.New()
	h.RegisterRoutes(e)

	body := `{"date_time":"2000-01-01T12:00:00"}`
	doJSON(e, http.MethodPost, "/charts/build", body)
	doJSON(e, http.MethodPost, "/charts/build", body)
	rec := doJSON(e, http.MethodPost, "/charts/build", body)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusTooManyRequests {
		t.Fatalf("third request: envelope status = %d, want 429", env.Status)
	}
}

func TestCompareSuccess(t *testing.T) {
	stub := &stubChartAPI{info: models.CompatibilityInfo{
		TotalScore: 62.0,
		Blocks: map[string]float64{
			"romantic": 50, "emotional": 80, "mental": 80, "sexual": 50, "stability": 50,
		},
		AspectCount: 1,
	}}
	e, _ := newTestServer(t, stub)

	chart, _ := json.Marshal(sampleChart())
	body := fmt.Sprintf(`{"chart1":%s,"chart2":%s}`, chart, chart)

	rec := doJSON(e, http.MethodPost, "/charts/compare", body)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200 (body %s)", env.Status, rec.Body.String())
	}
	var info models.CompatibilityInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.TotalScore != 62.0 || len(info.Blocks) != 5 {
		t.Fatalf("unexpected compare payload: %s", env.Data)
	}
}

func TestHealth(t *testing.T) {
	stub := &stubChartAPI{}
	e, _ := newTestServer(t, stub)

	rec := doJSON(e, http.MethodGet, "/health", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", env.Status)
	}
	if !strings.Contains(string(env.Data), `"stub"`) {
		t.Fatalf("health must report the backend, got %s", env.Data)
	}
}
