package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DateResponse is the payload of the convert, parse and today endpoints.
type DateResponse struct {
	Kind      string `json:"kind"`
	BS        string `json:"bs"`
	AD        string `json:"ad"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
	Nepali    string `json:"nepali"`
	DateTime  string `json:"datetime,omitempty"`
	Zone      string `json:"zone,omitempty"`
}

// FormatResponse is the payload of /format.
type FormatResponse struct {
	Layout string `json:"layout"`
	Style  string `json:"style"`
	Result string `json:"result"`
}

// CalendarResponse is the payload of /calendar/{year}/{month}.
type CalendarResponse struct {
	Days         int    `json:"days"`
	FirstWeekday string `json:"first_weekday"`
	Text         string `json:"text"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status  string `json:"status"`
	Source  string `json:"source"`
	MinYear int    `json:"min_year"`
	MaxYear int    `json:"max_year"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Patro API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testConversions()
	tr.testFormat()
	tr.testParse()
	tr.testCalendar()
	tr.testNumbers()
	tr.testErrors()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%s almanac, %d-%d)",
			health.Source, health.MinYear, health.MaxYear))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	for _, tz := range []string{"", "UTC", "America/New_York"} {
		path := "/api/v1/today"
		label := "Today (NPT)"
		if tz != "" {
			path += "?tz=" + url.QueryEscape(tz)
			label = "Today (" + tz + ")"
		}

		var data DateResponse
		if err := tr.getData(path, &data); err != nil {
			tr.recordError(label, err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s = %s AD, %s", label, data.DateTime, data.AD, data.Weekday))
		tr.printDetail(data)
	}
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Conversions")

	testCases := []struct {
		ad          string
		bs          string
		weekday     string
		description string
	}{
		{"1844-04-11", "1901-01-01", "Thursday", "First day of the almanac"},
		{"1943-04-13", "2000-01-01", "Tuesday", "New Year 2000"},
		{"2020-09-30", "2077-06-15", "Wednesday", "Mid-year 2077"},
		{"2024-01-14", "2080-10-01", "Sunday", "Magh 1 (Maghe Sankranti)"},
		{"2024-02-06", "2080-10-24", "Tuesday", "Reference date"},
		{"2024-04-12", "2080-12-30", "Friday", "Last day of 2080"},
		{"2024-04-13", "2081-01-01", "Saturday", "New Year 2081"},
		{"2026-01-14", "2082-10-01", "Wednesday", "Magh 1 2082"},
		{"2143-04-15", "2199-12-30", "", "Last day of the almanac"},
	}

	for _, tc := range testCases {
		var toBS DateResponse
		if err := tr.getData("/api/v1/convert/ad-to-bs/"+tc.ad, &toBS); err != nil {
			tr.recordError(tc.ad, err.Error())
			continue
		}
		var toAD DateResponse
		if err := tr.getData("/api/v1/convert/bs-to-ad/"+tc.bs, &toAD); err != nil {
			tr.recordError(tc.bs, err.Error())
			continue
		}

		switch {
		case toBS.BS != tc.bs:
			tr.recordError(tc.ad, fmt.Sprintf("got BS %s, want %s (%s)", toBS.BS, tc.bs, tc.description))
		case toAD.AD != tc.ad:
			tr.recordError(tc.bs, fmt.Sprintf("got AD %s, want %s (%s)", toAD.AD, tc.ad, tc.description))
		case tc.weekday != "" && toBS.Weekday != tc.weekday:
			tr.recordError(tc.ad, fmt.Sprintf("got %s, want %s (%s)", toBS.Weekday, tc.weekday, tc.description))
		default:
			tr.recordSuccess(fmt.Sprintf("%s AD <-> %s BS: %s", tc.ad, tc.bs, tc.description))
		}
	}
}

func (tr *TestRunner) testFormat() {
	tr.printSection("Formatting")

	testCases := []struct {
		date   string
		layout string
		style  string
		want   string
	}{
		{"2080-10-24", "%B %d, %Y", "", "Magh 24, 2080"},
		{"2080-10-24", "%a %b %d", "", "Tue Mag 24"},
		{"2080-10-24", "%K-%n-%D", "", "२०८०-१०-२४"},
		{"2080-02-01", "%N", "sanskrit", "ज्येष्ठ"},
		{"2080-10-24 14:30", "%I:%M %p", "", "02:30 PM"},
		{"2080-10-24", "100%%", "", "100%"},
	}

	for _, tc := range testCases {
		q := url.Values{"date": {tc.date}, "layout": {tc.layout}}
		if tc.style != "" {
			q.Set("style", tc.style)
		}

		var data FormatResponse
		if err := tr.getData("/api/v1/format?"+q.Encode(), &data); err != nil {
			tr.recordError(tc.layout, err.Error())
			continue
		}
		if data.Result != tc.want {
			tr.recordError(tc.layout, fmt.Sprintf("got %q, want %q", data.Result, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%-12s %q -> %s", tc.date, tc.layout, data.Result))
	}
}

func (tr *TestRunner) testParse() {
	tr.printSection("Parsing")

	testCases := []struct {
		text   string
		layout string
		want   string
	}{
		{"2080-10-24", "", "2080-10-24"},
		{"2080/10/24", "", "2080-10-24"},
		{"Magh 24, 2080", "", "2080-10-24"},
		{"24 Magh 2080", "", "2080-10-24"},
		{"माघ २४, २०८०", "", "2080-10-24"},
		{"2080-10-24 2:30 PM", "", "2080-10-24"},
		{"80-10-24", "", "2080-10-24"},
		{"24/10/2080", "%d/%m/%Y", "2080-10-24"},
		{"२०८०-१०-२४", "%K-%n-%D", "2080-10-24"},
	}

	for _, tc := range testCases {
		q := url.Values{"text": {tc.text}}
		if tc.layout != "" {
			q.Set("layout", tc.layout)
		}

		var data DateResponse
		if err := tr.getData("/api/v1/parse?"+q.Encode(), &data); err != nil {
			tr.recordError(tc.text, err.Error())
			continue
		}
		if data.BS != tc.want {
			tr.recordError(tc.text, fmt.Sprintf("got %s, want %s", data.BS, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%q -> %s (%s)", tc.text, data.BS, data.Kind))
	}
}

func (tr *TestRunner) testCalendar() {
	tr.printSection("Calendar")

	var data CalendarResponse
	if err := tr.getData("/api/v1/calendar/2082/10", &data); err != nil {
		tr.recordError("Magh 2082", err.Error())
		return
	}
	if data.Days != 29 || data.FirstWeekday != "Wednesday" {
		tr.recordError("Magh 2082", fmt.Sprintf("got %d days starting %s", data.Days, data.FirstWeekday))
		return
	}
	tr.recordSuccess("Magh 2082: 29 days, starts Wednesday")
	if tr.verbose {
		fmt.Println(indent(data.Text))
	}
}

func (tr *TestRunner) testNumbers() {
	tr.printSection("Numbers")

	formatCases := []struct {
		value string
		want  string
	}{
		{"1234567", "12,34,567"},
		{"2,553,871", "25,53,871"},
		{"१००००००", "10,00,000"},
	}
	for _, tc := range formatCases {
		var data struct {
			Result string `json:"result"`
			Words  string `json:"words"`
		}
		if err := tr.getData("/api/v1/numbers/format?value="+url.QueryEscape(tc.value), &data); err != nil {
			tr.recordError(tc.value, err.Error())
			continue
		}
		if data.Result != tc.want {
			tr.recordError(tc.value, fmt.Sprintf("got %q, want %q", data.Result, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%-10s -> %s (%s)", tc.value, data.Result, data.Words))
	}

	ordinalCases := []struct {
		value string
		want  string
	}{
		{"first", "पहिलो"},
		{"21st", "एक्काइसौं"},
		{"दशौं", "दशौं"},
	}
	for _, tc := range ordinalCases {
		var data struct {
			Value  int    `json:"value"`
			Nepali string `json:"nepali"`
		}
		if err := tr.getData("/api/v1/numbers/ordinal/"+url.PathEscape(tc.value), &data); err != nil {
			tr.recordError(tc.value, err.Error())
			continue
		}
		if data.Nepali != tc.want {
			tr.recordError(tc.value, fmt.Sprintf("got %q, want %q", data.Nepali, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%-10s -> %d %s", tc.value, data.Value, data.Nepali))
	}
}

func (tr *TestRunner) testErrors() {
	tr.printSection("Error Handling")

	testCases := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/convert/ad-to-bs/1800-01-01", 422, "OUT_OF_RANGE"},
		{"/api/v1/convert/bs-to-ad/2082-10-30", 422, "OUT_OF_RANGE"},
		{"/api/v1/convert/bs-to-ad/hello", 422, "FORMAT_MISMATCH"},
		{"/api/v1/parse?text=tomorrow", 422, "UNPARSEABLE_INPUT"},
		{"/api/v1/format?date=2080-10-24&style=vedic", 400, "BAD_REQUEST"},
		{"/api/v1/calendar/2300/1", 422, "OUT_OF_RANGE"},
		{"/api/v1/nowhere", 404, "NOT_FOUND"},
	}

	for _, tc := range testCases {
		status, apiResp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		code := ""
		if apiResp.Error != nil {
			code = apiResp.Error.Code
		}
		if status != tc.status || code != tc.code {
			tr.recordError(tc.path, fmt.Sprintf("got HTTP %d %s, want %d %s", status, code, tc.status, tc.code))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %d %s", tc.path, status, code))
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (tr *TestRunner) getRaw(path string) (int, *APIResponse, error) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("parse JSON: %w (body: %s)", err, truncate(string(body), 200))
	}
	return resp.StatusCode, &apiResp, nil
}

func (tr *TestRunner) getData(path string, target interface{}) error {
	status, apiResp, err := tr.getRaw(path)
	if err != nil {
		return err
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Code + ": " + apiResp.Error.Message
		}
		return fmt.Errorf("HTTP %d: %s", status, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDetail(d DateResponse) {
	if !tr.verbose {
		return
	}
	fmt.Printf("    BS:     %s (%s)\n", d.BS, d.MonthName)
	fmt.Printf("    Nepali: %s\n", d.Nepali)
	if d.Zone != "" {
		fmt.Printf("    Zone:   %s\n", d.Zone)
	}
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show date details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
