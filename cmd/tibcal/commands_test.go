package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/zapponejosh/tibcal-api/internal/calendar"
)

var (
	tableOnce   sync.Once
	sharedTable *calendar.Table
	tableErr    error
)

// run executes the root command with args against the shared month table
// and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	tableOnce.Do(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		sharedTable, tableErr = calendar.Build(calendar.BuildOptions{Logger: logger})
	})
	if tableErr != nil {
		t.Fatalf("Build() error = %v", tableErr)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCommand(&app{table: sharedTable})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToTibetan_Single(t *testing.T) {
	out, err := run(t, "to-tibetan", "2024-02-10")
	if err != nil {
		t.Fatalf("to-tibetan error = %v", err)
	}
	for _, want := range []string{"Gregorian", "2024-02-10", "17", "38"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToTibetan_Range(t *testing.T) {
	out, err := run(t, "to-tibetan", "2024-03-22", "2024-03-25")
	if err != nil {
		t.Fatalf("to-tibetan error = %v", err)
	}
	for _, want := range []string{"2024-03-22", "2024-03-23", "2024-03-24", "2024-03-25", "first", "second"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToTibetan_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad date", []string{"to-tibetan", "10/02/2024"}},
		{"bad end", []string{"to-tibetan", "2024-02-10", "tomorrow"}},
		{"reversed", []string{"to-tibetan", "2024-03-25", "2024-03-22"}},
		{"before span", []string{"to-tibetan", "1000-01-01"}},
		{"no args", []string{"to-tibetan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v error = nil, want error", tt.args)
			}
		})
	}
}

func TestToGregorian(t *testing.T) {
	out, err := run(t, "to-gregorian", "17", "38", "2", "14")
	if err != nil {
		t.Fatalf("to-gregorian error = %v", err)
	}
	for _, want := range []string{"2024-03-23", "2024-03-24", "first", "second"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToGregorian_SkippedDay(t *testing.T) {
	out, err := run(t, "to-gregorian", "17", "38", "2", "4")
	if err != nil {
		t.Fatalf("to-gregorian error = %v", err)
	}
	if !strings.Contains(out, "skipped") {
		t.Errorf("output missing skipped marker:\n%s", out)
	}
}

func TestToGregorian_Wildcard(t *testing.T) {
	out, err := run(t, "to-gregorian", "17", "38", "6", "*")
	if err != nil {
		t.Fatalf("to-gregorian error = %v", err)
	}
	if !strings.Contains(out, "2024-07-06") || !strings.Contains(out, "2024-08-05") {
		t.Errorf("output missing both halves of the double month:\n%s", out)
	}
}

func TestToGregorian_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"to-gregorian", "17", "38", "two", "1"}},
		{"day out of range", []string{"to-gregorian", "17", "38", "2", "31"}},
		{"rabjung out of range", []string{"to-gregorian", "21", "1", "1", "1"}},
		{"too few args", []string{"to-gregorian", "17", "38"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v error = nil, want error", tt.args)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	out, err := run(t, "month", "17", "38", "2")
	if err != nil {
		t.Fatalf("month error = %v", err)
	}
	for _, want := range []string{"2024-03-11", "2024-04-08", "1199", "29"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMonth_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"month 13", []string{"month", "17", "38", "13"}},
		{"not a number", []string{"month", "17", "x", "2"}},
		{"rabjung 0", []string{"month", "0", "1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v error = nil, want error", tt.args)
			}
		})
	}
}

func TestMonths_Rabjung(t *testing.T) {
	out, err := run(t, "months", "--rabjung", "17")
	if err != nil {
		t.Fatalf("months error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// 60 years of 12 months plus the double months.
	if len(lines) < 720 || len(lines) > 760 {
		t.Fatalf("got %d lines, want about 742", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "17\t") {
			t.Fatalf("line %q is not in rabjung 17", line)
		}
	}
	if !strings.Contains(out, "17\t38\t2\t0\t1199\t") {
		t.Errorf("output missing month 17/38/2")
	}
}

func TestMonths_InvalidRabjung(t *testing.T) {
	_, err := run(t, "months", "--rabjung", "21")
	if !errors.Is(err, calendar.ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check")
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "34 of 34 checks passed") {
		t.Errorf("output missing summary:\n%s", out)
	}
	if strings.Contains(out, "FAIL") {
		t.Errorf("output reports a failure:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "tibcal.db")

	out, err := run(t, "export", "--db", path)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(out, "14843") {
		t.Errorf("output missing record count:\n%s", out)
	}
}

func TestParseTibetanArg(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"*", calendar.Wildcard, false},
		{"17", 17, false},
		{"0", 0, false},
		{"-1", -1, false},
		{"x", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTibetanArg("day", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTibetanArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTibetanArg(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
