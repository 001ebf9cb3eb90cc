package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/DinnerClub/internal/chart"
	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
	"github.com/MikeSquared-Agency/DinnerClub/internal/report"
)

// Reporter is the report service as seen by the HTTP layer.
type Reporter interface {
	Load(ctx context.Context) (*ranking.Snapshot, error)
	Build(ctx context.Context, f ranking.Filter) (*report.Report, error)
	Export(ctx context.Context, f ranking.Filter, w io.Writer) (int, error)
	Weights() ranking.Weights
}

// scoreMax is the top of the survey's 1-10 scale.
const scoreMax = 10.0

type ReportHandler struct {
	reporter Reporter
	logger   *slog.Logger
}

func NewReportHandler(rep Reporter, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reporter: rep, logger: logger}
}

type badQueryError struct{ msg string }

func (e *badQueryError) Error() string { return e.msg }

func parseFilter(r *http.Request) (ranking.Filter, error) {
	q := r.URL.Query()
	var f ranking.Filter
	for _, field := range []struct {
		name string
		dst  *string
	}{{"restaurant", &f.Restaurant}, {"respondent", &f.Respondent}} {
		vals := q[field.name]
		if len(vals) > 1 {
			return f, &badQueryError{msg: fmt.Sprintf("%s given more than once", field.name)}
		}
		if len(vals) == 1 {
			*field.dst = vals[0]
		}
	}
	if f.Restaurant == "" {
		f.Restaurant = ranking.All
	}
	if f.Respondent == "" {
		f.Respondent = ranking.All
	}
	return f, nil
}

func parseMax(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("max")
	if raw == "" {
		return scoreMax, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, &badQueryError{msg: "max must be a positive number"}
	}
	return v, nil
}

func (h *ReportHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var (
		badQuery *badQueryError
		missing  *ranking.MissingColumnError
	)
	switch {
	case errors.As(err, &badQuery):
		status = http.StatusBadRequest
	case errors.As(err, &missing):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ranking.ErrSourceUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *ReportHandler) build(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	f, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	rep, err := h.reporter.Build(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return rep, true
}

func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type OptionsResponse struct {
	SnapshotID  string   `json:"snapshot_id"`
	Restaurants []string `json:"restaurants"`
	Respondents []string `json:"respondents"`
}

func (h *ReportHandler) Options(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reporter.Load(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OptionsResponse{
		SnapshotID:  snap.ID.String(),
		Restaurants: append([]string{ranking.All}, snap.Restaurants()...),
		Respondents: append([]string{ranking.All}, snap.Respondents()...),
	})
}

type WeightsResponse struct {
	Categories ranking.Weights `json:"categories"`
	Sum        float64         `json:"sum"`
	Balanced   bool            `json:"balanced"`
}

func (h *ReportHandler) Weights(w http.ResponseWriter, r *http.Request) {
	ws := h.reporter.Weights()
	writeJSON(w, http.StatusOK, WeightsResponse{Categories: ws, Sum: ws.Sum(), Balanced: ws.Balanced()})
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if _, err := h.reporter.Export(r.Context(), f, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dinner_club_rankings.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeSVG(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func radarChart(rep *report.Report, max float64) []byte {
	series := make([]chart.Series, len(rep.Radar))
	for i, s := range rep.Radar {
		series[i] = chart.Series{Name: s.Restaurant, Values: s.Values}
	}
	return chart.Radar("Category averages by restaurant", rep.Weights.Names(), series, max)
}

func restaurantChart(rep *report.Report, max float64) []byte {
	bars := make([]chart.BarValue, len(rep.RestaurantRanking))
	for i, s := range rep.RestaurantRanking {
		bars[i] = chart.BarValue{Label: s.Restaurant, Value: s.MeanWeightedScore}
	}
	return chart.Bar("Average weighted ranking", bars, max)
}

func respondentChart(rep *report.Report, max float64) []byte {
	bars := make([]chart.BarValue, len(rep.Pivot.Rows))
	for i, row := range rep.Pivot.Rows {
		bars[i] = chart.BarValue{Label: row.Respondent, Value: row.AverageRating}
	}
	return chart.Bar("Average rating by respondent", bars, max)
}

func (h *ReportHandler) svgHandler(render func(*report.Report, float64) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		max, err := parseMax(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		rep, ok := h.build(w, r)
		if !ok {
			return
		}
		writeSVG(w, render(rep, max))
	}
}

func (h *ReportHandler) RadarChart(w http.ResponseWriter, r *http.Request) {
	h.svgHandler(radarChart)(w, r)
}

func (h *ReportHandler) BarChart(w http.ResponseWriter, r *http.Request) {
	h.svgHandler(restaurantChart)(w, r)
}

func (h *ReportHandler) RespondentChart(w http.ResponseWriter, r *http.Request) {
	h.svgHandler(respondentChart)(w, r)
}
