package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/tibcal-api/internal/calendar"
	"github.com/zapponejosh/tibcal-api/internal/config"
	"github.com/zapponejosh/tibcal-api/internal/database"
	"github.com/zapponejosh/tibcal-api/internal/logger"
	"github.com/zapponejosh/tibcal-api/internal/metrics"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	table    *calendar.Table
	db       *database.DB // nil disables the export endpoints
	cfg      *config.Config
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance. The table is read-only and
// shared by every request.
func NewHandlers(table *calendar.Table, db *database.DB, cfg *config.Config, m *metrics.Metrics) *Handlers {
	v := validator.New()
	// Report query and path parameter names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("param")
	})

	return &Handlers{
		table:    table,
		db:       db,
		cfg:      cfg,
		metrics:  m,
		validate: v,
		now:      time.Now,
	}
}

// =============================================================================
// Request parameters
// =============================================================================

type rangeQuery struct {
	Start string `param:"start" validate:"required,datetime=2006-01-02"`
	End   string `param:"end" validate:"required,datetime=2006-01-02"`
}

// gregorianQuery holds Tibetan date parts; zero means wildcard.
type gregorianQuery struct {
	Rabjung int `param:"rabjung" validate:"omitempty,min=1,max=20"`
	Year    int `param:"year" validate:"omitempty,min=1,max=60"`
	Month   int `param:"month" validate:"omitempty,min=1,max=12"`
	Day     int `param:"day" validate:"omitempty,min=1,max=30"`
}

type monthPath struct {
	Rabjung int `param:"rabjung" validate:"min=1,max=20"`
	Year    int `param:"year" validate:"min=1,max=60"`
	Month   int `param:"month" validate:"min=1,max=12"`
	Flag    int `param:"flag" validate:"min=0,max=2"`
}

// intParam binds a raw parameter name to its destination field.
type intParam struct {
	name string
	dst  *int
}

// parseInt parses an optional integer parameter into dst, leaving dst
// untouched when raw is empty.
func parseInt(name, raw string, dst *int) error {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	*dst = v
	return nil
}

// =============================================================================
// Health
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.table == nil || h.table.Len() == 0 {
		WriteError(w, http.StatusServiceUnavailable, "Month table not built", "HEALTH_CHECK_FAILED")
		return
	}

	store := "disabled"
	if h.db != nil {
		store = "ok"
		if err := h.db.Health(r.Context()); err != nil {
			logger.Warn(r.Context(), "export store unhealthy", slog.Any("error", err))
			store = "unavailable"
		}
	}

	WriteSuccess(w, map[string]interface{}{
		"status":       "healthy",
		"months":       h.table.Len(),
		"first_date":   calendar.FormatDate(h.table.FirstDate()),
		"last_date":    calendar.FormatDate(h.table.LastDate()),
		"export_store": store,
	})
}

// =============================================================================
// Gregorian -> Tibetan
// =============================================================================

// GetTodayTibetan handles GET /api/v1/tibetan/today
func (h *Handlers) GetTodayTibetan(w http.ResponseWriter, r *http.Request) {
	h.writeTibetan(w, r, h.now().UTC())
}

// GetTibetanDate handles GET /api/v1/tibetan/{date}
func (h *Handlers) GetTibetanDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	h.writeTibetan(w, r, date)
}

func (h *Handlers) writeTibetan(w http.ResponseWriter, r *http.Request, date time.Time) {
	td, err := h.table.GregorianToTibetan(date)
	if err != nil {
		h.writeCalendarError(w, r, "convert gregorian date", err)
		return
	}
	h.metrics.AddConversions(metrics.DirectionToTibetan, 1)

	WriteSuccess(w, GregorianDayJSON{
		Gregorian: calendar.FormatDate(date),
		Tibetan:   toTibetanJSON(td),
	})
}

// GetTibetanRange handles GET /api/v1/tibetan/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetTibetanRange(w http.ResponseWriter, r *http.Request) {
	q := rangeQuery{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	if err := h.validate.Struct(q); err != nil {
		WriteValidationError(w, err)
		return
	}

	// Both parse: the validator checked the layout
	start, _ := calendar.ParseDateString(q.Start)
	end, _ := calendar.ParseDateString(q.End)

	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	dates, err := h.table.GregorianRangeToTibetan(start, end)
	if err != nil {
		h.writeCalendarError(w, r, "convert gregorian range", err)
		return
	}
	h.metrics.AddConversions(metrics.DirectionToTibetan, len(dates))

	out := make([]GregorianDayJSON, len(dates))
	for i, td := range dates {
		out[i] = GregorianDayJSON{
			Gregorian: calendar.FormatDate(start.AddDate(0, 0, i)),
			Tibetan:   toTibetanJSON(td),
		}
	}

	WriteSuccess(w, map[string]interface{}{
		"start": q.Start,
		"end":   q.End,
		"days":  out,
	})
}

// =============================================================================
// Tibetan -> Gregorian
// =============================================================================

// GetGregorian handles GET /api/v1/gregorian?rabjung=&year=&month=&day=
// Omitted parameters are wildcards; rabjung or year bounds the expansion.
func (h *Handlers) GetGregorian(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q gregorianQuery
	for _, p := range []intParam{
		{"rabjung", &q.Rabjung},
		{"year", &q.Year},
		{"month", &q.Month},
		{"day", &q.Day},
	} {
		if err := parseInt(p.name, query.Get(p.name), p.dst); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
	}

	if err := h.validate.Struct(q); err != nil {
		WriteValidationError(w, err)
		return
	}
	if q.Rabjung == 0 && q.Year == 0 {
		WriteBadRequest(w, "rabjung or year is required")
		return
	}

	pairs := h.table.TibetanToGregorian(wildcard(q.Rabjung), wildcard(q.Year), wildcard(q.Month), wildcard(q.Day))
	h.metrics.AddConversions(metrics.DirectionToGregorian, len(pairs))

	WriteSuccess(w, map[string]interface{}{
		"count": len(pairs),
		"dates": toPairsJSON(pairs),
	})
}

// wildcard maps an omitted parameter to calendar.Wildcard.
func wildcard(v int) int {
	if v == 0 {
		return calendar.Wildcard
	}
	return v
}

// =============================================================================
// Month descriptors
// =============================================================================

// parseMonthPath reads {rabjung}/{year}/{month} and, when withFlag is set,
// {flag}. It writes the error response itself and reports false on failure.
func (h *Handlers) parseMonthPath(w http.ResponseWriter, r *http.Request, withFlag bool) (monthPath, bool) {
	var p monthPath
	params := []intParam{
		{"rabjung", &p.Rabjung},
		{"year", &p.Year},
		{"month", &p.Month},
	}
	if withFlag {
		params = append(params, intParam{"flag", &p.Flag})
	}

	for _, param := range params {
		if err := parseInt(param.name, chi.URLParam(r, param.name), param.dst); err != nil {
			WriteBadRequest(w, err.Error())
			return p, false
		}
	}
	if err := h.validate.Struct(p); err != nil {
		WriteValidationError(w, err)
		return p, false
	}
	return p, true
}

// GetMonth handles GET /api/v1/months/{rabjung}/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parseMonthPath(w, r, false)
	if !ok {
		return
	}

	months := h.table.LookupMonth(p.Rabjung, p.Year, p.Month)
	if len(months) == 0 {
		WriteNotFound(w, fmt.Sprintf("No month %d/%d/%d", p.Rabjung, p.Year, p.Month))
		return
	}

	out := make([]MonthJSON, len(months))
	for i, md := range months {
		out[i] = toMonthJSON(md)
	}
	WriteSuccess(w, out)
}

// GetMonthWithFlag handles GET /api/v1/months/{rabjung}/{year}/{month}/{flag}
func (h *Handlers) GetMonthWithFlag(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parseMonthPath(w, r, true)
	if !ok {
		return
	}

	md, found := h.table.Lookup(p.Rabjung, p.Year, p.Month, calendar.MonthFlag(p.Flag))
	if !found {
		WriteNotFound(w, fmt.Sprintf("No month %d/%d/%d with flag %d", p.Rabjung, p.Year, p.Month, p.Flag))
		return
	}
	WriteSuccess(w, toMonthJSON(*md))
}

// =============================================================================
// Self-checks
// =============================================================================

// GetChecks handles GET /api/v1/checks
func (h *Handlers) GetChecks(w http.ResponseWriter, r *http.Request) {
	results := calendar.Verify(h.table)
	failed := calendar.Failed(results)
	if len(failed) > 0 {
		logger.Warn(r.Context(), "fixed-point checks failed", slog.Int("failed", len(failed)))
	}

	WriteSuccess(w, map[string]interface{}{
		"passed":  len(failed) == 0,
		"total":   len(results),
		"failed":  len(failed),
		"results": results,
	})
}

// =============================================================================
// Admin: export store
// =============================================================================

// CreateExport handles POST /api/v1/admin/exports
func (h *Handlers) CreateExport(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	run, err := h.db.ExportTable(r.Context(), h.table)
	h.metrics.ObserveExport(err)
	if err != nil {
		logger.Error(r.Context(), "export failed", err)
		WriteInternalError(w, "Failed to export month table")
		return
	}

	logger.Info(r.Context(), "month table exported",
		slog.String("run_id", run.ID),
		slog.Int("records", run.RecordCount),
	)
	WriteCreated(w, run)
}

// ListExports handles GET /api/v1/admin/exports
func (h *Handlers) ListExports(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	runs, err := h.db.ListExportRuns(r.Context())
	if err != nil {
		logger.Error(r.Context(), "list exports failed", err)
		WriteInternalError(w, "Failed to list exports")
		return
	}
	WriteSuccess(w, runs)
}

// exportDetail is a run together with the number of rows actually stored.
type exportDetail struct {
	*database.ExportRun
	StoredMonths int `json:"stored_months"`
}

// GetExport handles GET /api/v1/admin/exports/{id}
func (h *Handlers) GetExport(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "id")

	run, err := h.db.GetExportRun(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "get export failed", fmt.Sprintf("No export %s", id), err)
		return
	}

	stored, err := h.db.CountExportedMonths(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "count exported months failed", "", err)
		return
	}
	WriteSuccess(w, exportDetail{ExportRun: run, StoredMonths: stored})
}

// GetExportedMonth handles GET /api/v1/admin/exports/{id}/months/{rabjung}/{year}/{month}/{flag}
// The stored row is compared with the descriptor at the same table position.
func (h *Handlers) GetExportedMonth(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	p, ok := h.parseMonthPath(w, r, true)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	key := calendar.MonthKey{Rabjung: p.Rabjung, Year: p.Year, Month: p.Month, Flag: calendar.MonthFlag(p.Flag)}

	row, err := h.db.GetExportedMonth(r.Context(), id, key)
	if err != nil {
		h.writeStoreError(w, r, "get exported month failed", fmt.Sprintf("No month %s in export %s", key, id), err)
		return
	}

	md, err := h.table.At(row.Seq)
	WriteSuccess(w, map[string]interface{}{
		"month":         row,
		"matches_table": err == nil && row.Matches(md),
	})
}

// requireStore writes 503 and reports false when exports are disabled.
func (h *Handlers) requireStore(w http.ResponseWriter) bool {
	if h.db == nil {
		WriteError(w, http.StatusServiceUnavailable, "Export store not configured", "EXPORT_STORE_UNAVAILABLE")
		return false
	}
	return true
}

// writeStoreError maps database.ErrNotFound to 404 and anything else to 500.
func (h *Handlers) writeStoreError(w http.ResponseWriter, r *http.Request, op, notFound string, err error) {
	if notFound != "" && database.IsNotFound(err) {
		WriteNotFound(w, notFound)
		return
	}
	logger.Error(r.Context(), op, err)
	WriteInternalError(w, "Export store query failed")
}

// =============================================================================
// Error mapping
// =============================================================================

// writeCalendarError maps calendar sentinel errors onto HTTP responses.
func (h *Handlers) writeCalendarError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, calendar.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, calendar.ErrOutOfRange):
		WriteBadRequest(w, err.Error())
	default:
		logger.Error(r.Context(), op, err)
		WriteInternalError(w, "Conversion failed")
	}
}
