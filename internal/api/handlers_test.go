package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/patro-api/internal/config"
	"github.com/zapponejosh/patro-api/internal/database"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv holds a router wired the way cmd/api wires it.
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	handlers *Handlers
	router   http.Handler
	adminKey string
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))
}

func testConfig(adminKey string) *config.Config {
	return &config.Config{
		Port:           8080,
		Env:            config.EnvDevelopment,
		CalendarSource: config.SourceEmbedded,
		CacheSize:      64,
		DatabasePath:   ":memory:",
		APIKey:         adminKey,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		LogLevel:       "error",
		LogFormat:      "text",
	}
}

// setupTest creates a test environment backed by the embedded almanac.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	adminKey := "admin-test-key"
	cfg := testConfig(adminKey)
	logger := quietLogger()
	handlers := NewHandlers(nil, cfg, logger)

	return &testEnv{
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, logger),
		adminKey: adminKey,
	}
}

// setupDBTest creates a test environment with an in-memory almanac database.
func setupDBTest(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := quietLogger()

	db, err := database.Open(context.Background(), dbCfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Run migrations
	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	adminKey := "admin-test-key"
	cfg := testConfig(adminKey)
	cfg.CalendarSource = config.SourceSQLite
	handlers := NewHandlers(db, cfg, logger)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, logger),
		adminKey: adminKey,
	}
}

// makeRequest is a helper to make HTTP requests with optional API key
func makeRequest(method, path string, body interface{}, apiKey string) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return req
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	return env.do(makeRequest(http.MethodGet, path, nil, ""))
}

// parseResponse parses JSON response
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
}

// envelope decodes the Response wrapper with a typed payload.
type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorInfo `json:"error"`
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("Status = %d, want %d; body: %s", rr.Code, status, rr.Body.String())
	}
	var resp envelope[json.RawMessage]
	parseResponse(t, rr, &resp)
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rr.Body.String())
	}
	if resp.Error.Code != code {
		t.Errorf("Error.Code = %q, want %q (%s)", resp.Error.Code, code, resp.Error.Message)
	}
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		env    string
		cfgKey string
		key    string
		want   int
	}{
		{"valid key", config.EnvProduction, "secret", "secret", http.StatusOK},
		{"missing key", config.EnvProduction, "secret", "", http.StatusUnauthorized},
		{"invalid key", config.EnvProduction, "secret", "guess", http.StatusUnauthorized},
		{"development without key", config.EnvDevelopment, "", "", http.StatusOK},
		{"development with key set", config.EnvDevelopment, "secret", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.cfgKey)
			cfg.Env = tt.env
			handler := AuthMiddleware(cfg, quietLogger())(ok)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest(http.MethodGet, "/admin/test", nil, tt.key))
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/health")
	id := rr.Header().Get("X-Request-ID")
	if len(id) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", id)
	}

	req := makeRequest(http.MethodGet, "/health", nil, "")
	req.Header.Set("X-Request-ID", "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	rr = env.do(req)
	if got := rr.Header().Get("X-Request-ID"); got != "1b4e28ba-2fa1-11d2-883f-0016d3cca427" {
		t.Errorf("X-Request-ID = %q, want the incoming ID", got)
	}

	req = makeRequest(http.MethodGet, "/health", nil, "")
	req.Header.Set("X-Request-ID", "not a uuid")
	rr = env.do(req)
	if got := rr.Header().Get("X-Request-ID"); got == "not a uuid" {
		t.Error("malformed incoming X-Request-ID should be replaced")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testConfig("")
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	logger := quietLogger()
	router := SetupRoutes(NewHandlers(nil, cfg, logger), cfg, logger)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, makeRequest(http.MethodGet, "/api/v1/convert/ad-to-bs/2024-02-06", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("first request Status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, makeRequest(http.MethodGet, "/api/v1/convert/ad-to-bs/2024-02-06", nil, ""))
	expectError(t, rr, http.StatusTooManyRequests, CodeRateLimited)
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	// Health checks are not limited.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, makeRequest(http.MethodGet, "/health", nil, ""))
	if rr.Code != http.StatusOK {
		t.Errorf("/health Status = %d, want 200", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest(http.MethodOptions, "/api/v1/today", nil, ""))
	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

// =============================================================================
// OPERATIONAL TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	for name, env := range map[string]*testEnv{
		"embedded": setupTest(t),
		"sqlite":   setupDBTest(t),
	} {
		t.Run(name, func(t *testing.T) {
			rr := env.get("/health")
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}

			var resp envelope[map[string]interface{}]
			parseResponse(t, rr, &resp)
			if resp.Data["status"] != "healthy" {
				t.Errorf("status = %v", resp.Data["status"])
			}
			if resp.Data["source"] != env.cfg.CalendarSource {
				t.Errorf("source = %v, want %s", resp.Data["source"], env.cfg.CalendarSource)
			}
			if resp.Data["min_year"] != float64(1901) || resp.Data["max_year"] != float64(2199) {
				t.Errorf("range = %v-%v", resp.Data["min_year"], resp.Data["max_year"])
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	env := setupTest(t)

	env.get("/api/v1/convert/ad-to-bs/2024-02-06")
	env.get("/api/v1/convert/ad-to-bs/1800-01-01")

	rr := env.get("/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",path="/api/v1/convert/ad-to-bs/{date}",status="200"} 1`,
		`patro_conversions_total{kind="ad_to_bs",outcome="ok"} 1`,
		`patro_conversions_total{kind="ad_to_bs",outcome="OUT_OF_RANGE"} 1`,
		"patro_conversion_cache_hits_total",
		"http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNotFound(t *testing.T) {
	env := setupTest(t)

	expectError(t, env.get("/api/v1/nope"), http.StatusNotFound, CodeNotFound)
	expectError(t, env.do(makeRequest(http.MethodPost, "/api/v1/today", nil, "")),
		http.StatusMethodNotAllowed, CodeMethodNotAllowed)
}

// =============================================================================
// DATE TESTS
// =============================================================================

func TestToday(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/api/v1/today")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[DateTimeView]
	parseResponse(t, rr, &resp)
	if resp.Data.Kind != "datetime" || resp.Data.Zone != "Asia/Kathmandu" {
		t.Errorf("today = %+v", resp.Data)
	}
	if !strings.HasSuffix(resp.Data.DateTime, "+05:45") {
		t.Errorf("DateTime = %q, want an NPT offset", resp.Data.DateTime)
	}

	rr = env.get("/api/v1/today?tz=UTC")
	resp = envelope[DateTimeView]{}
	parseResponse(t, rr, &resp)
	if resp.Data.Zone != "UTC" {
		t.Errorf("Zone = %q, want UTC", resp.Data.Zone)
	}

	expectError(t, env.get("/api/v1/today?tz=Mars/Olympus"), http.StatusBadRequest, CodeBadRequest)
}

func TestConvertADToBS(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		ad      string
		bs      string
		weekday string
		month   string
	}{
		{"2024-02-06", "2080-10-24", "Tuesday", "Magh"},
		{"2024-04-13", "2081-01-01", "Saturday", "Baishakh"},
		{"1844-04-11", "1901-01-01", "Thursday", "Baishakh"},
		{"2143-04-15", "2199-12-30", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ad, func(t *testing.T) {
			rr := env.get("/api/v1/convert/ad-to-bs/" + tt.ad)
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			var resp envelope[DateView]
			parseResponse(t, rr, &resp)
			if resp.Data.BS != tt.bs || resp.Data.AD != tt.ad {
				t.Errorf("convert = %s/%s, want %s/%s", resp.Data.BS, resp.Data.AD, tt.bs, tt.ad)
			}
			if tt.weekday != "" && resp.Data.Weekday != tt.weekday {
				t.Errorf("Weekday = %q, want %q", resp.Data.Weekday, tt.weekday)
			}
			if tt.month != "" && resp.Data.MonthName != tt.month {
				t.Errorf("MonthName = %q, want %q", resp.Data.MonthName, tt.month)
			}
		})
	}

	expectError(t, env.get("/api/v1/convert/ad-to-bs/1800-01-01"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/convert/ad-to-bs/2200-01-01"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/convert/ad-to-bs/06-02-2024"), http.StatusBadRequest, CodeBadRequest)
}

func TestConvertBSToAD(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/api/v1/convert/bs-to-ad/2081-01-01")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[DateView]
	parseResponse(t, rr, &resp)
	if resp.Data.AD != "2024-04-13" || resp.Data.Weekday != "Saturday" || resp.Data.Ordinal == 0 {
		t.Errorf("convert = %+v", resp.Data)
	}
	if resp.Data.Nepali == "" {
		t.Error("Nepali rendering missing")
	}

	expectError(t, env.get("/api/v1/convert/bs-to-ad/2081-13-01"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/convert/bs-to-ad/2082-10-30"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/convert/bs-to-ad/hello"), http.StatusUnprocessableEntity, CodeFormatMismatch)
}

func TestFormat(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		q    url.Values
		want string
	}{
		{"default layout", url.Values{"date": {"2080-10-24"}}, "2080-10-24"},
		{"long", url.Values{"date": {"2080-10-24"}, "layout": {"%B %d, %Y"}}, "Magh 24, 2080"},
		{"weekday", url.Values{"date": {"2080-10-24"}, "layout": {"%A"}}, "Tuesday"},
		{"named input", url.Values{"date": {"Magh 24, 2080"}, "layout": {"%Y/%m/%d"}}, "2080/10/24"},
		{"datetime input", url.Values{"date": {"2080-10-24 14:30"}, "layout": {"%I:%M %p"}}, "02:30 PM"},
		{"time codes on a date", url.Values{"date": {"2080-10-24"}, "layout": {"%H:%M"}}, "%H:%M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get("/api/v1/format?" + tt.q.Encode())
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			var resp envelope[map[string]string]
			parseResponse(t, rr, &resp)
			if resp.Data["result"] != tt.want {
				t.Errorf("result = %q, want %q", resp.Data["result"], tt.want)
			}
		})
	}

	expectError(t, env.get("/api/v1/format"), http.StatusBadRequest, CodeBadRequest)
	expectError(t, env.get("/api/v1/format?date=2080-10-24&style=vedic"), http.StatusBadRequest, CodeBadRequest)
	expectError(t, env.get("/api/v1/format?date=someday"), http.StatusUnprocessableEntity, CodeUnparseable)
	expectError(t, env.get("/api/v1/format?date=2080-13-01"), http.StatusUnprocessableEntity, CodeUnparseable)
}

func TestFormat_Style(t *testing.T) {
	env := setupTest(t)

	q := url.Values{"date": {"2080-02-01"}, "layout": {"%N"}}
	rr := env.get("/api/v1/format?" + q.Encode())
	var formal envelope[map[string]string]
	parseResponse(t, rr, &formal)

	q.Set("style", "SANSKRIT")
	rr = env.get("/api/v1/format?" + q.Encode())
	var sanskrit envelope[map[string]string]
	parseResponse(t, rr, &sanskrit)

	if formal.Data["result"] != "जेठ" || sanskrit.Data["result"] != "ज्येष्ठ" {
		t.Errorf("styles = %q / %q", formal.Data["result"], sanskrit.Data["result"])
	}
	if sanskrit.Data["style"] != "sanskrit" {
		t.Errorf("style = %q, want sanskrit", sanskrit.Data["style"])
	}
}

func TestParse(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name     string
		q        url.Values
		kind     string
		bs       string
		datetime string
	}{
		{"auto date", url.Values{"text": {"2080-10-24"}}, "date", "2080-10-24", ""},
		{"auto named", url.Values{"text": {"Magh 24, 2080"}}, "date", "2080-10-24", ""},
		{"auto devanagari", url.Values{"text": {"२०८०-१०-२४"}}, "date", "2080-10-24", ""},
		{"auto datetime", url.Values{"text": {"2080-10-24 14:30"}}, "datetime", "2080-10-24", "2080-10-24T14:30:00"},
		{"layout", url.Values{"text": {"24/10/2080"}, "layout": {"%d/%m/%Y"}}, "datetime", "2080-10-24", "2080-10-24T00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get("/api/v1/parse?" + tt.q.Encode())
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			var resp envelope[DateTimeView]
			parseResponse(t, rr, &resp)
			if resp.Data.Kind != tt.kind || resp.Data.BS != tt.bs || resp.Data.DateTime != tt.datetime {
				t.Errorf("parse = %s %s %q, want %s %s %q",
					resp.Data.Kind, resp.Data.BS, resp.Data.DateTime, tt.kind, tt.bs, tt.datetime)
			}
		})
	}

	expectError(t, env.get("/api/v1/parse"), http.StatusBadRequest, CodeBadRequest)
	expectError(t, env.get("/api/v1/parse?text=tomorrow"), http.StatusUnprocessableEntity, CodeUnparseable)

	q := url.Values{"text": {"2080-10-24"}, "layout": {"%d/%m/%Y"}}
	expectError(t, env.get("/api/v1/parse?"+q.Encode()), http.StatusUnprocessableEntity, CodeFormatMismatch)
}

// =============================================================================
// NUMBER TESTS
// =============================================================================

func TestFormatNumber(t *testing.T) {
	env := setupTest(t)

	type numberView struct {
		Input  string `json:"input"`
		Result string `json:"result"`
		Words  string `json:"words"`
	}

	tests := []struct {
		name   string
		q      url.Values
		result string
		words  string
	}{
		{"plain", url.Values{"value": {"1234567"}}, "12,34,567", "बाह्र लाख चौँतीस हजार पाँच सय सतसट्ठी"},
		{"western grouping", url.Values{"value": {"2,553,871"}}, "25,53,871", "पच्चीस लाख त्रिपन्न हजार आठ सय एकहत्तर"},
		{"devanagari", url.Values{"value": {"2080"}, "devanagari": {"true"}}, "२,०८०", "दुई हजार असी"},
		{"delimiter", url.Values{"value": {"100000"}, "delimiter": {" "}}, "1 00 000", "एक लाख"},
		{"fraction", url.Values{"value": {"-1234.5"}}, "-1,234.5", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get("/api/v1/numbers/format?" + tt.q.Encode())
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			var resp envelope[numberView]
			parseResponse(t, rr, &resp)
			if resp.Data.Result != tt.result || resp.Data.Words != tt.words {
				t.Errorf("format = %q %q, want %q %q", resp.Data.Result, resp.Data.Words, tt.result, tt.words)
			}
		})
	}

	expectError(t, env.get("/api/v1/numbers/format"), http.StatusBadRequest, CodeBadRequest)
	expectError(t, env.get("/api/v1/numbers/format?value=12a"), http.StatusUnprocessableEntity, CodeUnparseable)
	expectError(t, env.get("/api/v1/numbers/format?value=1&devanagari=maybe"), http.StatusBadRequest, CodeBadRequest)
}

func TestNumberWords(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/api/v1/numbers/words/1234")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[struct {
		Number    int64  `json:"number"`
		Formatted string `json:"formatted"`
		Words     string `json:"words"`
	}]
	parseResponse(t, rr, &resp)
	if resp.Data.Number != 1234 || resp.Data.Formatted != "1,234" || resp.Data.Words != "एक हजार दुई सय चौँतीस" {
		t.Errorf("words = %+v", resp.Data)
	}

	expectError(t, env.get("/api/v1/numbers/words/-1"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/numbers/words/abc"), http.StatusBadRequest, CodeBadRequest)
}

func TestOrdinal(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		value  string
		n      int
		nepali string
	}{
		{"first", 1, "पहिलो"},
		{"21st", 21, "एक्काइसौं"},
		{"100", 100, "सयौं"},
		{"पहिलो", 1, "पहिलो"},
		{"दशौं", 10, "दशौं"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rr := env.get("/api/v1/numbers/ordinal/" + url.PathEscape(tt.value))
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			var resp envelope[struct {
				Value  int    `json:"value"`
				Nepali string `json:"nepali"`
			}]
			parseResponse(t, rr, &resp)
			if resp.Data.Value != tt.n || resp.Data.Nepali != tt.nepali {
				t.Errorf("ordinal = %d %q, want %d %q", resp.Data.Value, resp.Data.Nepali, tt.n, tt.nepali)
			}
		})
	}

	expectError(t, env.get("/api/v1/numbers/ordinal/101"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/numbers/ordinal/hello"), http.StatusUnprocessableEntity, CodeUnparseable)
}

// =============================================================================
// CALENDAR TESTS
// =============================================================================

func TestMonthCalendar(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/api/v1/calendar/2082/10")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[map[string]interface{}]
	parseResponse(t, rr, &resp)
	if resp.Data["days"] != float64(29) || resp.Data["first_weekday"] != "Wednesday" || resp.Data["month_name"] != "Magh" {
		t.Errorf("calendar = %v", resp.Data)
	}
	text, _ := resp.Data["text"].(string)
	if !strings.Contains(text, "Sun Mon Tue Wed Thu Fri Sat") {
		t.Errorf("text = %q", text)
	}

	rr = env.get("/api/v1/calendar/2082/10?first=monday&nepali=true")
	resp = envelope[map[string]interface{}]{}
	parseResponse(t, rr, &resp)
	text, _ = resp.Data["text"].(string)
	if !strings.Contains(text, "सोम") || strings.Contains(text, "Sun") {
		t.Errorf("nepali text = %q", text)
	}

	expectError(t, env.get("/api/v1/calendar/2300/1"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/calendar/2080/13"), http.StatusUnprocessableEntity, CodeOutOfRange)
	expectError(t, env.get("/api/v1/calendar/year/1"), http.StatusBadRequest, CodeBadRequest)
	expectError(t, env.get("/api/v1/calendar/2080/1?nepali=maybe"), http.StatusBadRequest, CodeBadRequest)
}

func TestYearCalendar(t *testing.T) {
	env := setupTest(t)

	rr := env.get("/api/v1/calendar/2080")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[map[string]interface{}]
	parseResponse(t, rr, &resp)
	if resp.Data["days"] != float64(365) {
		t.Errorf("days = %v, want 365", resp.Data["days"])
	}
	text, _ := resp.Data["text"].(string)
	if !strings.HasPrefix(text, strings.Repeat("=", 20)+" 2080 ") {
		t.Errorf("text starts %q", text[:min(len(text), 40)])
	}

	expectError(t, env.get("/api/v1/calendar/1900"), http.StatusUnprocessableEntity, CodeOutOfRange)
}

// =============================================================================
// ADMIN TESTS
// =============================================================================

func TestAlmanac_Embedded(t *testing.T) {
	env := setupTest(t)

	expectError(t, env.get("/api/v1/admin/almanac"), http.StatusUnauthorized, CodeUnauthorized)

	rr := env.do(makeRequest(http.MethodGet, "/api/v1/admin/almanac", nil, env.adminKey))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp envelope[struct {
		Source string                 `json:"source"`
		Years  []database.AlmanacYear `json:"years"`
	}]
	parseResponse(t, rr, &resp)
	if resp.Data.Source != config.SourceEmbedded || len(resp.Data.Years) != 299 {
		t.Errorf("almanac source=%s years=%d", resp.Data.Source, len(resp.Data.Years))
	}

	body := map[string]interface{}{"months": []int{31, 31, 32, 31, 31, 31, 30, 29, 29, 30, 30, 30}}
	rr = env.do(makeRequest(http.MethodPut, "/api/v1/admin/almanac/2080", body, env.adminKey))
	expectError(t, rr, http.StatusConflict, CodeReadOnly)
}

func TestAlmanac_SQLite(t *testing.T) {
	env := setupDBTest(t)
	months := []int{31, 31, 32, 31, 31, 31, 30, 29, 29, 30, 30, 30}

	rr := env.do(makeRequest(http.MethodPut, "/api/v1/admin/almanac/2080",
		map[string]interface{}{"months": months, "source": "panchang"}, env.adminKey))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var put envelope[database.AlmanacYear]
	parseResponse(t, rr, &put)
	if put.Data.Year != 2080 || put.Data.Days != 365 || put.Data.Source != "panchang" {
		t.Errorf("stored = %+v", put.Data)
	}

	rr = env.do(makeRequest(http.MethodGet, "/api/v1/admin/almanac", nil, env.adminKey))
	var list envelope[struct {
		Source string                 `json:"source"`
		Years  []database.AlmanacYear `json:"years"`
	}]
	parseResponse(t, rr, &list)
	if list.Data.Source != config.SourceSQLite || len(list.Data.Years) != 1 {
		t.Errorf("almanac = %+v", list.Data)
	}

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"eleven months", "/api/v1/admin/almanac/2081", map[string]interface{}{"months": months[:11]}, http.StatusBadRequest, CodeBadRequest},
		{"short month", "/api/v1/admin/almanac/2081", map[string]interface{}{"months": append([]int{28}, months[1:]...)}, http.StatusBadRequest, CodeBadRequest},
		{"unknown field", "/api/v1/admin/almanac/2081", map[string]interface{}{"months": months, "leap": true}, http.StatusBadRequest, CodeBadRequest},
		{"gap", "/api/v1/admin/almanac/2090", map[string]interface{}{"months": months}, http.StatusUnprocessableEntity, CodeInvalidAlmanac},
		{"bad year", "/api/v1/admin/almanac/next", map[string]interface{}{"months": months}, http.StatusBadRequest, CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest(http.MethodPut, tt.path, tt.body, env.adminKey))
			expectError(t, rr, tt.status, tt.code)
		})
	}

	if _, err := env.db.GetYear(context.Background(), 2081); !database.IsNotFound(err) {
		t.Errorf("rejected year was stored: %v", err)
	}
}
