package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/tibcal-api/internal/api"
	"github.com/zapponejosh/tibcal-api/internal/calendar"
	"github.com/zapponejosh/tibcal-api/internal/config"
	"github.com/zapponejosh/tibcal-api/internal/database"
	"github.com/zapponejosh/tibcal-api/internal/logger"
)

// errChecksFailed is returned by the check command when any fixed point differs.
var errChecksFailed = errors.New("fixed-point checks failed")

// app carries state shared by the commands.
type app struct {
	verbose bool
	table   *calendar.Table
}

// loadTable builds the month table on first use. Build logs go to stderr,
// at info level with --verbose and warn otherwise.
func (a *app) loadTable(cmd *cobra.Command) (*calendar.Table, error) {
	if a.table != nil {
		return a.table, nil
	}

	level := "warn"
	if a.verbose {
		level = "info"
	}
	table, err := calendar.Build(calendar.BuildOptions{
		Logger: logger.New(cmd.ErrOrStderr(), level, "text"),
	})
	if err != nil {
		return nil, fmt.Errorf("build month table: %w", err)
	}
	a.table = table
	return table, nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tibcal",
		Short:         "Tibetan Phugpa calendar converter",
		Long:          "tibcal converts dates between the Tibetan Phugpa calendar and the Gregorian calendar for rabjung cycles 1 to 20 (1027 to 2227).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log table construction at info level")

	root.AddCommand(
		newToTibetanCommand(a),
		newToGregorianCommand(a),
		newMonthCommand(a),
		newMonthsCommand(a),
		newCheckCommand(a),
		newExportCommand(a),
		newServeCommand(),
	)
	return root
}

// newTable returns a bordered table writer on w.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(true)
	t.SetAutoFormatHeaders(false)
	return t
}

// parseTibetanArg accepts an integer or "*". Zero, negatives and "*" are
// wildcards.
func parseTibetanArg(name, s string) (int, error) {
	if s == "*" {
		return calendar.Wildcard, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer or '*', got %q", name, s)
	}
	return v, nil
}

func tibetanRow(g string, td calendar.TibetanDate) []string {
	return []string{
		g,
		strconv.Itoa(td.Rabjung),
		strconv.Itoa(td.Year),
		strconv.Itoa(td.Month),
		td.MonthFlag.String(),
		strconv.Itoa(td.Day),
		doubleText(td.DoubleDay),
	}
}

func doubleText(f calendar.DoubleDayFlag) string {
	switch f {
	case calendar.DayFirstOccurrence:
		return "first"
	case calendar.DaySecondOccurrence:
		return "second"
	default:
		return ""
	}
}

var tibetanHeader = []string{"Gregorian", "Rabjung", "Year", "Month", "Month flag", "Day", "Double"}

func newToTibetanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "to-tibetan DATE [END]",
		Short: "Convert a Gregorian date or inclusive range to Tibetan",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calendar.ParseDateString(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
			}
			end := start
			if len(args) == 2 {
				if end, err = calendar.ParseDateString(args[1]); err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[1])
				}
			}

			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			dates, err := table.GregorianRangeToTibetan(start, end)
			if err != nil {
				return err
			}

			out := newTable(cmd.OutOrStdout(), tibetanHeader...)
			for i, td := range dates {
				out.Append(tibetanRow(calendar.FormatDate(start.AddDate(0, 0, i)), td))
			}
			out.Render()
			return nil
		},
	}
}

func newToGregorianCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian RABJUNG YEAR MONTH DAY",
		Short: "Convert a Tibetan date to Gregorian; any part may be '*'",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := []string{"rabjung", "year", "month", "day"}
			parts := make([]int, len(args))
			for i, s := range args {
				v, err := parseTibetanArg(names[i], s)
				if err != nil {
					return err
				}
				parts[i] = v
			}

			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			pairs := table.TibetanToGregorian(parts[0], parts[1], parts[2], parts[3])
			if len(pairs) == 0 {
				return fmt.Errorf("no such Tibetan date %s/%s/%s/%s", args[0], args[1], args[2], args[3])
			}

			out := newTable(cmd.OutOrStdout(), tibetanHeader...)
			for _, p := range pairs {
				g := "skipped"
				if p.Gregorian != nil {
					g = calendar.FormatDate(*p.Gregorian)
				}
				out.Append(tibetanRow(g, p.Tibetan))
			}
			out.Render()
			return nil
		},
	}
}

var monthHeader = []string{"Rabjung", "Year", "Month", "Flag", "Index", "Skip", "Skip", "Double", "Double", "Start", "End", "Days"}

func monthRow(md calendar.MonthDescriptor) []string {
	return []string{
		strconv.Itoa(md.Rabjung),
		strconv.Itoa(md.Year),
		strconv.Itoa(md.Month),
		md.Flag.String(),
		strconv.Itoa(md.ElapsedMonthIndex),
		strconv.Itoa(md.Skip1),
		strconv.Itoa(md.Skip2),
		strconv.Itoa(md.Double1),
		strconv.Itoa(md.Double2),
		calendar.FormatDate(md.WesternStartDate),
		calendar.FormatDate(md.LastDate()),
		strconv.Itoa(md.Length()),
	}
}

func newMonthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "month RABJUNG YEAR MONTH",
		Short: "Show the descriptors of one Tibetan month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key [3]int
			for i, s := range args {
				v, err := strconv.Atoi(s)
				if err != nil {
					return fmt.Errorf("argument %d must be an integer, got %q", i+1, s)
				}
				key[i] = v
			}
			if err := calendar.ValidateMonthKey(calendar.MonthKey{Rabjung: key[0], Year: key[1], Month: key[2]}); err != nil {
				return err
			}

			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			months := table.LookupMonth(key[0], key[1], key[2])
			if len(months) == 0 {
				return fmt.Errorf("%w: month %d/%d/%d", calendar.ErrNotFound, key[0], key[1], key[2])
			}

			out := newTable(cmd.OutOrStdout(), monthHeader...)
			for _, md := range months {
				out.Append(monthRow(md))
			}
			out.Render()
			return nil
		},
	}
}

func newMonthsCommand(a *app) *cobra.Command {
	var rabjung int
	cmd := &cobra.Command{
		Use:   "months",
		Short: "Dump month records as tab-separated lines",
		Long:  "Dump month records, one per line: rabjung, year, month, flag, elapsed month index, skip days, double days and start date, separated by tabs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rabjung != 0 && (rabjung < calendar.FirstRabjung || rabjung > calendar.LastRabjung) {
				return fmt.Errorf("%w: rabjung %d", calendar.ErrOutOfRange, rabjung)
			}

			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, md := range table.Months() {
				if rabjung != 0 && md.Rabjung != rabjung {
					continue
				}
				fmt.Fprintln(w, md.String())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rabjung, "rabjung", 0, "Only dump months of this rabjung cycle")
	return cmd
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Rerun the historical fixed-point checks against the month table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			results := calendar.Verify(table)

			out := newTable(cmd.OutOrStdout(), "Kind", "Input", "Want", "Got", "Result")
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "FAIL"
				}
				out.Append([]string{r.Kind, r.Input, r.Want, r.Got, status})
			}
			out.Render()

			failed := calendar.Failed(results)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d checks passed\n", len(results)-len(failed), len(results))
			if len(failed) > 0 {
				return errChecksFailed
			}
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the month table to SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}

			log := logger.New(cmd.ErrOrStderr(), "warn", "text")
			if a.verbose {
				log = logger.New(cmd.ErrOrStderr(), "info", "text")
			}
			db, err := database.Open(database.DefaultConfig(dbPath), log)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if _, err := db.Migrate(ctx); err != nil {
				return err
			}
			run, err := db.ExportTable(ctx, table)
			if err != nil {
				return err
			}

			out := newTable(cmd.OutOrStdout(), "Run", "Created", "Records", "Anchor")
			out.Append([]string{run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), strconv.Itoa(run.RecordCount), run.Anchor})
			out.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", envOr("EXPORT_DATABASE_PATH", "./data/tibcal.db"), "SQLite file receiving the snapshot")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (configured from the environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.Setup(cfg)
			log.Info("starting tibetan calendar API", slog.String("env", cfg.Env), slog.Int("port", cfg.Port))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, cfg, log)
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
