package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/patro-api/internal/bsdate"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/config"
	"github.com/zapponejosh/patro-api/internal/database"
	"github.com/zapponejosh/patro-api/internal/digits"
	"github.com/zapponejosh/patro-api/internal/grid"
	"github.com/zapponejosh/patro-api/internal/logger"
	"github.com/zapponejosh/patro-api/internal/names"
	"github.com/zapponejosh/patro-api/internal/numbers"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB // nil when the almanac is embedded
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// NewHandlers creates a new Handlers instance. db may be nil, in which case
// the admin almanac endpoints are read-only views of the embedded almanac.
// The process-wide converter must already be installed.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"query", "json"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	return &Handlers{
		db:       db,
		cfg:      cfg,
		logger:   logger,
		metrics:  NewMetrics(calendar.Default().CacheStats),
		validate: v,
	}
}

// =============================================================================
// Views
// =============================================================================

// DateView is the JSON form of a BS date.
type DateView struct {
	Kind      string `json:"kind"`
	BS        string `json:"bs"`
	AD        string `json:"ad"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
	Nepali    string `json:"nepali"`
	Ordinal   int    `json:"ordinal"`
}

// DateTimeView adds the time of day and the AD instant.
type DateTimeView struct {
	DateView
	DateTime string `json:"datetime"`
	ADTime   string `json:"ad_time"`
	Zone     string `json:"zone,omitempty"`
}

func newDateView(d bsdate.Date) DateView {
	return DateView{
		Kind:      "date",
		BS:        d.String(),
		AD:        d.AD().Format(time.DateOnly),
		Year:      d.Year(),
		Month:     d.Month(),
		Day:       d.Day(),
		MonthName: names.Months[d.Month()-1],
		Weekday:   names.Weekdays[d.Weekday()],
		Nepali:    d.Format(bsdate.NepaliLong),
		Ordinal:   d.Ordinal(),
	}
}

func newDateTimeView(dt bsdate.DateTime) DateTimeView {
	v := DateTimeView{
		DateView: newDateView(dt.Date()),
		DateTime: dt.ISOFormat("T", bsdate.TimespecAuto),
		ADTime:   dt.Time().Format(time.RFC3339Nano),
	}
	v.Kind = "datetime"
	if loc := dt.Location(); loc != nil {
		v.Zone = loc.String()
	}
	return v
}

func valueView(v bsdate.Value) interface{} {
	if dt, ok := v.(bsdate.DateTime); ok {
		return newDateTimeView(dt)
	}
	return newDateView(v.DateOf())
}

// =============================================================================
// Request binding
// =============================================================================

type todayQuery struct {
	TZ string `query:"tz" validate:"omitempty,timezone"`
}

type formatQuery struct {
	Date   string `query:"date" validate:"required,max=64"`
	Layout string `query:"layout" validate:"max=128"`
	Style  string `query:"style" validate:"omitempty,oneof=formal sanskrit"`
}

type parseQuery struct {
	Text   string `query:"text" validate:"required,max=128"`
	Layout string `query:"layout" validate:"max=128"`
}

type calendarQuery struct {
	Nepali string `query:"nepali" validate:"omitempty,oneof=true false 1 0"`
	First  string `query:"first" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
}

type numberQuery struct {
	Value      string `query:"value" validate:"required,max=64"`
	Devanagari string `query:"devanagari" validate:"omitempty,oneof=true false 1 0"`
	Delimiter  string `query:"delimiter" validate:"max=4"`
}

type almanacYearRequest struct {
	Months []int  `json:"months" validate:"len=12,dive,min=29,max=32"`
	Source string `json:"source" validate:"omitempty,max=64"`
}

func (q calendarQuery) options() grid.Options {
	opts := grid.Options{Nepali: q.Nepali == "true" || q.Nepali == "1"}
	for i, name := range names.Weekdays {
		if strings.EqualFold(name, q.First) {
			opts.FirstWeekday = time.Weekday(i)
		}
	}
	return opts
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}

// check validates req and writes a 400 on failure.
func (h *Handlers) check(w http.ResponseWriter, req interface{}) bool {
	if err := h.validate.Struct(req); err != nil {
		WriteBadRequest(w, validationMessage(err))
		return false
	}
	return true
}

// writeErr maps err to a response. Unknown errors are logged and hidden.
func (h *Handlers) writeErr(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, code, known := errorStatus(err)
	if !known {
		logger.Error(r.Context(), msg, err, slog.String("path", r.URL.Path))
		WriteInternalError(w, msg)
		return
	}
	WriteError(w, status, err.Error(), code)
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func queryString(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

// =============================================================================
// Operational
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
	}

	conv := calendar.Default()
	WriteSuccess(w, map[string]interface{}{
		"status":   "healthy",
		"source":   h.cfg.CalendarSource,
		"min_year": conv.MinYear(),
		"max_year": conv.MaxYear(),
	})
}

// =============================================================================
// Dates
// =============================================================================

// Today handles GET /api/v1/today?tz=
func (h *Handlers) Today(w http.ResponseWriter, r *http.Request) {
	req := todayQuery{TZ: queryString(r.URL.Query(), "tz")}
	if !h.check(w, req) {
		return
	}

	loc := bsdate.NPT
	if req.TZ != "" {
		l, err := time.LoadLocation(req.TZ)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Unknown time zone: %s", req.TZ))
			return
		}
		loc = l
	}

	WriteSuccess(w, newDateTimeView(bsdate.Now(loc)))
}

// ConvertADToBS handles GET /api/v1/convert/ad-to-bs/{YYYY-MM-DD}
func (h *Handlers) ConvertADToBS(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	ad, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	d, err := bsdate.FromAD(ad)
	h.metrics.observe("ad_to_bs", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to convert date")
		return
	}

	WriteSuccess(w, newDateView(d))
}

// ConvertBSToAD handles GET /api/v1/convert/bs-to-ad/{YYYY-MM-DD}
func (h *Handlers) ConvertBSToAD(w http.ResponseWriter, r *http.Request) {
	d, err := bsdate.ParseDateFormat(chi.URLParam(r, "date"), bsdate.ISOLayout)
	h.metrics.observe("bs_to_ad", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to convert date")
		return
	}

	WriteSuccess(w, newDateView(d))
}

// Format handles GET /api/v1/format?date=&layout=&style=
//
// date is read by the auto-detecting parser, so it may carry a time of day.
func (h *Handlers) Format(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := formatQuery{
		Date:   queryString(q, "date"),
		Layout: q.Get("layout"),
		Style:  strings.ToLower(queryString(q, "style")),
	}
	if !h.check(w, req) {
		return
	}

	style, err := bsdate.ParseStyle(req.Style)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	layout := req.Layout
	if layout == "" {
		layout = bsdate.ISOLayout
	}

	v, err := bsdate.Parse(req.Date)
	h.metrics.observe("format", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to format date")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"input":  req.Date,
		"layout": layout,
		"style":  style.String(),
		"result": bsdate.Format(v, layout, style),
	})
}

// Parse handles GET /api/v1/parse?text=&layout=
//
// Without a layout the text is auto-detected.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := parseQuery{
		Text:   queryString(q, "text"),
		Layout: q.Get("layout"),
	}
	if !h.check(w, req) {
		return
	}

	var (
		v   bsdate.Value
		err error
	)
	if req.Layout == "" {
		v, err = bsdate.Parse(req.Text)
	} else {
		v, err = bsdate.ParseFormat(req.Text, req.Layout)
	}
	h.metrics.observe("parse", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to parse date")
		return
	}

	WriteSuccess(w, valueView(v))
}

// =============================================================================
// Calendars
// =============================================================================

// MonthCalendar handles GET /api/v1/calendar/{year}/{month}?nepali=&first=
func (h *Handlers) MonthCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	month, err := pathInt(r, "month")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	req := calendarQuery{Nepali: queryString(q, "nepali"), First: strings.ToLower(queryString(q, "first"))}
	if !h.check(w, req) {
		return
	}

	opts := req.options()
	today := bsdate.Today(bsdate.NPT)
	opts.Highlight = &today

	text, err := grid.MonthCalendar(year, month, opts)
	if err != nil {
		h.writeErr(w, r, err, "Failed to render calendar")
		return
	}
	first := bsdate.MustNew(year, month, 1)

	WriteSuccess(w, map[string]interface{}{
		"year":          year,
		"month":         month,
		"month_name":    names.Months[month-1],
		"days":          first.DaysInMonth(),
		"first_weekday": names.Weekdays[first.Weekday()],
		"text":          text,
	})
}

// YearCalendar handles GET /api/v1/calendar/{year}?nepali=&first=
func (h *Handlers) YearCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	req := calendarQuery{Nepali: queryString(q, "nepali"), First: strings.ToLower(queryString(q, "first"))}
	if !h.check(w, req) {
		return
	}

	text, err := grid.YearCalendar(year, req.options())
	if err != nil {
		h.writeErr(w, r, err, "Failed to render calendar")
		return
	}
	days, err := calendar.Default().DaysInYear(year)
	if err != nil {
		h.writeErr(w, r, err, "Failed to render calendar")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"year": year,
		"days": days,
		"text": text,
	})
}

// =============================================================================
// Numbers
// =============================================================================

// FormatNumber handles GET /api/v1/numbers/format?value=&devanagari=&delimiter=
//
// Integers that fit in 64 bits also get their Nepali words.
func (h *Handlers) FormatNumber(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := numberQuery{
		Value:      queryString(q, "value"),
		Devanagari: strings.ToLower(queryString(q, "devanagari")),
		Delimiter:  q.Get("delimiter"),
	}
	if !h.check(w, req) {
		return
	}

	opts := numbers.Options{
		Devanagari: req.Devanagari == "true" || req.Devanagari == "1",
		Delimiter:  req.Delimiter,
	}
	result, err := numbers.Format(req.Value, opts)
	h.metrics.observe("number", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to format number")
		return
	}

	data := map[string]interface{}{
		"input":  req.Value,
		"result": result,
	}
	plain := strings.ReplaceAll(digits.ToASCII(req.Value), ",", "")
	if n, err := strconv.ParseInt(plain, 10, 64); err == nil && n >= 0 {
		data["words"], _ = numbers.Words(n)
	}
	WriteSuccess(w, data)
}

// NumberWords handles GET /api/v1/numbers/words/{n}
func (h *Handlers) NumberWords(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("invalid number %q", raw))
		return
	}

	words, err := numbers.Words(n)
	h.metrics.observe("number", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to spell number")
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"number":    n,
		"formatted": numbers.FormatInt(n, numbers.Options{}),
		"words":     words,
	})
}

// Ordinal handles GET /api/v1/numbers/ordinal/{value}
//
// value may be a number, English ordinal text ("first", "21st") or a Nepali
// ordinal word.
func (h *Handlers) Ordinal(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "value"))

	n, err := numbers.ParseOrdinal(raw)
	if err != nil {
		var word string
		if word, err = numbers.OrdinalOf(raw); err == nil {
			n, err = numbers.ParseOrdinal(word)
		}
	}
	h.metrics.observe("ordinal", err)
	if err != nil {
		h.writeErr(w, r, err, "Failed to convert ordinal")
		return
	}

	word, _ := numbers.Ordinal(n)
	WriteSuccess(w, map[string]interface{}{
		"input":  raw,
		"value":  n,
		"nepali": word,
	})
}

// =============================================================================
// Admin
// =============================================================================

// GetAlmanac handles GET /api/v1/admin/almanac
func (h *Handlers) GetAlmanac(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db == nil {
		conv := calendar.Default()
		years := make([]database.AlmanacYear, 0, conv.MaxYear()-conv.MinYear()+1)
		for _, y := range conv.Years() {
			months, _ := conv.Months(y)
			days, _ := conv.DaysInYear(y)
			years = append(years, database.AlmanacYear{Year: y, Months: months, Days: days, Source: config.SourceEmbedded})
		}
		WriteSuccess(w, map[string]interface{}{
			"source": config.SourceEmbedded,
			"years":  years,
		})
		return
	}

	years, err := h.db.ListYears(ctx)
	if err != nil {
		h.writeErr(w, r, err, "Failed to retrieve almanac")
		return
	}
	imports, err := h.db.ListImports(ctx, 10)
	if err != nil {
		h.writeErr(w, r, err, "Failed to retrieve almanac imports")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"source":  config.SourceSQLite,
		"years":   years,
		"imports": imports,
	})
}

// PutAlmanacYear handles PUT /api/v1/admin/almanac/{year}
//
// The stored almanac changes immediately; the running converter picks it up
// on the next restart.
func (h *Handlers) PutAlmanacYear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db == nil {
		WriteError(w, http.StatusConflict,
			"Almanac is embedded; set CALENDAR_SOURCE=sqlite to edit it", CodeReadOnly)
		return
	}

	year, err := pathInt(r, "year")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	var req almanacYearRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if !h.check(w, req) {
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	var months [12]int
	copy(months[:], req.Months)

	stored, err := h.db.UpsertYear(ctx, year, months, req.Source)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update almanac")
		return
	}

	logger.Info(ctx, "almanac year updated via api", slog.Int("year", year))
	WriteSuccess(w, stored)
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
