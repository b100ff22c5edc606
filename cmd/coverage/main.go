package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/names"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type DateResponse struct {
	BS string `json:"bs"`
	AD string `json:"ad"`
}

// TestResult holds the result for a single BS date
type TestResult struct {
	BS      string `json:"bs"`
	AD      string `json:"ad,omitempty"`
	Month   string `json:"month"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MonthStats tracks statistics for each month name
type MonthStats struct {
	Month       string
	TotalDays   int
	SuccessDays int
	FailedDays  int
	FailedDates []string
}

// Analysis summarizes a run.
type Analysis struct {
	TotalTested int
	TotalPassed int
	TotalFailed int
	ByMonth     map[string]*MonthStats
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2080, "Start BS year")
	years := flag.Int("years", 2, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Patro API - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to end of %d (BS)\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	// Test all dates
	results, err := testAllDates(client, *baseURL, *startYear, endYear, *verbose)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Analyze results
	analysis := analyzeResults(results)

	// Print summary
	printSummary(analysis, *startYear, endYear)

	// Print failures by month
	printFailuresByMonth(analysis)

	// Output to file if requested
	if *outputFile != "" {
		saveResults(*outputFile, results, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

// testAllDates walks every day of the BS years using the local almanac and
// checks that the server converts each one both ways, with consecutive BS
// days mapping to consecutive AD days.
func testAllDates(client *http.Client, baseURL string, startYear, endYear int, verbose bool) ([]TestResult, error) {
	conv := calendar.Default()

	totalDays := 0
	for year := startYear; year <= endYear; year++ {
		n, err := conv.DaysInYear(year)
		if err != nil {
			return nil, err
		}
		totalDays += n
	}

	fmt.Printf("Testing %d days...\n\n", totalDays)

	var (
		results      []TestResult
		tested       int
		failed       int
		lastProgress = -1
		prevAD       time.Time
	)

	for year := startYear; year <= endYear; year++ {
		months, _ := conv.Months(year)
		for m, days := range months {
			for d := 1; d <= days; d++ {
				bs := fmt.Sprintf("%04d-%02d-%02d", year, m+1, d)
				result := testDate(client, baseURL, bs)
				result.Month = names.Months[m]

				if result.Success {
					ad, _ := time.Parse("2006-01-02", result.AD)
					if !prevAD.IsZero() && !ad.Equal(prevAD.AddDate(0, 0, 1)) {
						result.Success = false
						result.Error = fmt.Sprintf("AD %s does not follow %s", result.AD, prevAD.Format("2006-01-02"))
					}
					prevAD = ad
				}

				results = append(results, result)
				tested++
				if !result.Success {
					failed++
				}

				// Show progress
				progress := (tested * 100) / totalDays
				if progress != lastProgress && progress%5 == 0 {
					fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, tested, totalDays, failed)
					lastProgress = progress
				}

				if verbose {
					status := "✓"
					if !result.Success {
						status = "✗"
					}
					fmt.Printf("  %s %s BS = %s AD\n", status, bs, result.AD)
					if !result.Success {
						fmt.Printf("      Error: %s\n", result.Error)
					}
				}
			}
		}
	}

	fmt.Println()
	return results, nil
}

func testDate(client *http.Client, baseURL, bs string) TestResult {
	result := TestResult{BS: bs}

	var toAD DateResponse
	if err := getData(client, baseURL+"/api/v1/convert/bs-to-ad/"+bs, &toAD); err != nil {
		result.Error = err.Error()
		return result
	}
	result.AD = toAD.AD

	var back DateResponse
	if err := getData(client, baseURL+"/api/v1/convert/ad-to-bs/"+toAD.AD, &back); err != nil {
		result.Error = "reverse: " + err.Error()
		return result
	}
	if back.BS != bs {
		result.Error = fmt.Sprintf("round trip gave %s", back.BS)
		return result
	}

	result.Success = true
	return result
}

func getData(client *http.Client, url string, target interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("Connection error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Read error: %v", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("Parse error: %v", err)
	}

	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Code + ": " + apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func analyzeResults(results []TestResult) *Analysis {
	a := &Analysis{ByMonth: make(map[string]*MonthStats)}

	for _, r := range results {
		a.TotalTested++
		stats, ok := a.ByMonth[r.Month]
		if !ok {
			stats = &MonthStats{Month: r.Month}
			a.ByMonth[r.Month] = stats
		}
		stats.TotalDays++

		if r.Success {
			a.TotalPassed++
			stats.SuccessDays++
		} else {
			a.TotalFailed++
			stats.FailedDays++
			stats.FailedDates = append(stats.FailedDates, r.BS)
		}
	}

	return a
}

func printSummary(a *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("Summary")
	fmt.Println("================================================================")
	fmt.Printf("Years:        %d-%d BS\n", startYear, endYear)
	fmt.Printf("Days tested:  %d\n", a.TotalTested)
	fmt.Printf("Passed:       %d\n", a.TotalPassed)
	fmt.Printf("Failed:       %d\n", a.TotalFailed)
	if a.TotalTested > 0 {
		fmt.Printf("Coverage:     %.2f%%\n", float64(a.TotalPassed)*100/float64(a.TotalTested))
	}
	fmt.Println()
}

func printFailuresByMonth(a *Analysis) {
	if a.TotalFailed == 0 {
		fmt.Println("All dates converted consistently ✓")
		return
	}

	var months []*MonthStats
	for _, s := range a.ByMonth {
		if s.FailedDays > 0 {
			months = append(months, s)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].FailedDays > months[j].FailedDays
	})

	fmt.Println("Failures by month:")
	for _, s := range months {
		fmt.Printf("  %-10s %d/%d failed\n", s.Month, s.FailedDays, s.TotalDays)
		for i, d := range s.FailedDates {
			if i == 5 {
				fmt.Printf("    ... and %d more\n", len(s.FailedDates)-5)
				break
			}
			fmt.Printf("    %s\n", d)
		}
	}
	fmt.Println()
}

func saveResults(path string, results []TestResult, a *Analysis) {
	out := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"tested":       a.TotalTested,
		"passed":       a.TotalPassed,
		"failed":       a.TotalFailed,
		"results":      results,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding results: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", path, err)
		return
	}
	fmt.Printf("Results saved to %s\n", path)
}
