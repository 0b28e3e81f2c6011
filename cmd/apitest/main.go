// Command apitest runs a smoke suite against a running tibcal API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/tibcal-api/internal/api"
	"github.com/zapponejosh/tibcal-api/internal/calendar"
)

// healthResponse is the payload of /health.
type healthResponse struct {
	Status      string `json:"status"`
	Months      int    `json:"months"`
	FirstDate   string `json:"first_date"`
	LastDate    string `json:"last_date"`
	ExportStore string `json:"export_store"`
}

type rangeResponse struct {
	Start string                 `json:"start"`
	End   string                 `json:"end"`
	Days  []api.GregorianDayJSON `json:"days"`
}

type gregorianResponse struct {
	Count int                `json:"count"`
	Dates []api.DatePairJSON `json:"dates"`
}

type checksResponse struct {
	Passed  bool                   `json:"passed"`
	Total   int                    `json:"total"`
	Failed  int                    `json:"failed"`
	Results []calendar.CheckResult `json:"results"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, client *http.Client, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		out:     out,
		verbose: verbose,
	}
}

// Run executes every test group and reports whether all passed.
func (tr *TestRunner) Run() bool {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Tibetan Calendar API Smoke Test")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testKnownDates()
	tr.testRange()
	tr.testGregorian()
	tr.testMonths()
	tr.testChecks()
	tr.testEdgeCases()

	tr.printSummary()
	return tr.errorCount == 0
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health healthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status != "healthy" {
		tr.recordError("Health", fmt.Sprintf("unexpected status %q", health.Status))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Healthy: %d months, %s..%s, export store %s",
		health.Months, health.FirstDate, health.LastDate, health.ExportStore))
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Gregorian to Tibetan")

	testCases := []struct {
		date        string
		want        api.TibetanDateJSON
		description string
	}{
		{"2024-02-10", api.TibetanDateJSON{Rabjung: 17, Year: 38, Month: 1, Day: 1}, "Losar 2024"},
		{"2024-03-23", api.TibetanDateJSON{Rabjung: 17, Year: 38, Month: 2, Day: 14, DoubleDay: 1}, "first of a doubled day"},
		{"2024-03-24", api.TibetanDateJSON{Rabjung: 17, Year: 38, Month: 2, Day: 14, DoubleDay: 2}, "second of a doubled day"},
		{"2024-07-06", api.TibetanDateJSON{Rabjung: 17, Year: 38, Month: 6, MonthFlag: 1, Day: 1}, "first half of a double month"},
		{"2024-08-05", api.TibetanDateJSON{Rabjung: 17, Year: 38, Month: 6, MonthFlag: 2, Day: 1}, "second half of a double month"},
	}

	for _, tc := range testCases {
		var data api.GregorianDayJSON
		if err := tr.getData("/api/v1/tibetan/"+tc.date, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if data.Tibetan != tc.want {
			tr.recordError(tc.date, fmt.Sprintf("got %+v, want %+v", data.Tibetan, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, formatTibetan(data.Tibetan), tc.description))
	}

	var today api.GregorianDayJSON
	if err := tr.getData("/api/v1/tibetan/today", &today); err != nil {
		tr.recordError("Today", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s): %s", today.Gregorian, formatTibetan(today.Tibetan)))
}

func (tr *TestRunner) testRange() {
	tr.printSection("Range Conversion")

	var data rangeResponse
	if err := tr.getData("/api/v1/tibetan/range?start=2024-03-22&end=2024-03-25", &data); err != nil {
		tr.recordError("Range", err.Error())
		return
	}

	if len(data.Days) != 4 {
		tr.recordError("Range", fmt.Sprintf("expected 4 days, got %d", len(data.Days)))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Range %s..%s returned %d days", data.Start, data.End, len(data.Days)))
	if tr.verbose {
		for _, d := range data.Days {
			fmt.Fprintf(tr.out, "    %s  %s\n", d.Gregorian, formatTibetan(d.Tibetan))
		}
	}

	tr.expectStatus("Range limit", "/api/v1/tibetan/range?start=2000-01-01&end=2011-01-01", http.StatusBadRequest)
	tr.expectStatus("Reversed range", "/api/v1/tibetan/range?start=2024-03-25&end=2024-03-22", http.StatusBadRequest)
}

func (tr *TestRunner) testGregorian() {
	tr.printSection("Tibetan to Gregorian")

	testCases := []struct {
		query     string
		wantCount int
	}{
		{"rabjung=17&year=38&month=2&day=14", 2},
		{"rabjung=17&year=38&month=2&day=1", 1},
		{"rabjung=17&year=38&month=6", 61},
	}

	for _, tc := range testCases {
		var data gregorianResponse
		if err := tr.getData("/api/v1/gregorian?"+tc.query, &data); err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}
		if data.Count != tc.wantCount {
			tr.recordError(tc.query, fmt.Sprintf("expected %d dates, got %d", tc.wantCount, data.Count))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %d dates", tc.query, data.Count))
	}

	var skipped gregorianResponse
	if err := tr.getData("/api/v1/gregorian?rabjung=17&year=38&month=2&day=4", &skipped); err != nil {
		tr.recordError("Skipped day", err.Error())
		return
	}
	if skipped.Count != 1 || skipped.Dates[0].Gregorian != nil || !skipped.Dates[0].Tibetan.Skipped {
		tr.recordError("Skipped day", fmt.Sprintf("expected one skipped entry, got %+v", skipped.Dates))
		return
	}
	tr.recordSuccess("17/38/2/4 is a skipped day")
}

func (tr *TestRunner) testMonths() {
	tr.printSection("Month Descriptors")

	var months []api.MonthJSON
	if err := tr.getData("/api/v1/months/17/38/6", &months); err != nil {
		tr.recordError("Double month", err.Error())
		return
	}
	if len(months) != 2 {
		tr.recordError("Double month", fmt.Sprintf("expected 2 descriptors, got %d", len(months)))
		return
	}
	for _, m := range months {
		tr.recordSuccess(fmt.Sprintf("17/38/6 flag %d: %s..%s (%d days)", m.MonthFlag, m.StartDate, m.EndDate, m.Length))
	}

	tr.expectStatus("Month 13", "/api/v1/months/17/38/13", http.StatusBadRequest)
}

func (tr *TestRunner) testChecks() {
	tr.printSection("Fixed-Point Checks")

	var data checksResponse
	if err := tr.getData("/api/v1/checks", &data); err != nil {
		tr.recordError("Checks", err.Error())
		return
	}

	if !data.Passed {
		for _, r := range calendar.Failed(data.Results) {
			tr.recordError("Check "+r.Input, fmt.Sprintf("want %s, got %s", r.Want, r.Got))
		}
		return
	}
	tr.recordSuccess(fmt.Sprintf("%d of %d checks passed", data.Total-data.Failed, data.Total))
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date", "/api/v1/tibetan/invalid", http.StatusBadRequest)
	tr.expectStatus("Before table span", "/api/v1/tibetan/1000-01-01", http.StatusNotFound)
	tr.expectStatus("Missing range end", "/api/v1/tibetan/range?start=2024-01-01", http.StatusBadRequest)
	tr.expectStatus("Unbounded Tibetan query", "/api/v1/gregorian?month=1", http.StatusBadRequest)
	tr.expectStatus("Unknown route", "/api/v1/unknown", http.StatusNotFound)
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the envelope's data into target.
func (tr *TestRunner) getData(path string, target interface{}) error {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *api.ErrorInfo  `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !envelope.Success {
		errMsg := "unknown error"
		if envelope.Error != nil {
			errMsg = envelope.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(envelope.Data, target)
}

func (tr *TestRunner) expectStatus(name, path string, want int) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode != want {
		tr.recordError(name, fmt.Sprintf("expected HTTP %d, got %d", want, resp.StatusCode))
		return
	}
	tr.recordSuccess(fmt.Sprintf("%s rejected with HTTP %d", name, want))
}

func formatTibetan(d api.TibetanDateJSON) string {
	s := fmt.Sprintf("%d/%d/%d/%d", d.Rabjung, d.Year, d.Month, d.Day)
	if d.MonthFlag != 0 {
		s += fmt.Sprintf(" (month flag %d)", d.MonthFlag)
	}
	if d.DoubleDay != 0 {
		s += fmt.Sprintf(" (occurrence %d)", d.DoubleDay)
	}
	return s
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintf(tr.out, "\n--- %s ---\n\n", name)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "\nFailures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		return
	}
	fmt.Fprintln(tr.out, "\nAll tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (print range conversions)")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	if _, err := client.Get(*baseURL + "/health"); err != nil {
		fmt.Printf("Error: cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	if !NewTestRunner(*baseURL, client, os.Stdout, *verbose).Run() {
		os.Exit(1)
	}
}
