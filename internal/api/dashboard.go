package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
	"github.com/MikeSquared-Agency/DinnerClub/internal/report"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"score": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"maybe": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
	"cell": func(scores map[string]float64, restaurant string) string {
		v, ok := scores[restaurant]
		if !ok {
			return ""
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"category": func(m ranking.RestaurantMeans, name string) *float64 { return m.Categories[name] },
}).ParseFS(templateFS, "templates/dashboard.html"))

type dashboardView struct {
	*report.Report
	RestaurantOptions []string
	RespondentOptions []string
	ExportURL         string
	RadarSVG          template.HTML
	RestaurantSVG     template.HTML
	RespondentSVG     template.HTML
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.build(w, r)
	if !ok {
		return
	}

	q := url.Values{}
	q.Set("restaurant", rep.Filter.Restaurant)
	q.Set("respondent", rep.Filter.Respondent)

	// Chart documents are generated with every label escaped.
	view := dashboardView{
		Report:            rep,
		RestaurantOptions: append([]string{ranking.All}, rep.Restaurants...),
		RespondentOptions: append([]string{ranking.All}, rep.Respondents...),
		ExportURL:         "/api/v1/export.csv?" + q.Encode(),
		RadarSVG:          template.HTML(radarChart(rep, scoreMax)),
		RestaurantSVG:     template.HTML(restaurantChart(rep, scoreMax)),
		RespondentSVG:     template.HTML(respondentChart(rep, scoreMax)),
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
