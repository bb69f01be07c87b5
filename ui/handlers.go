package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"gapdash/adapters/excel"
	"gapdash/app"
	"gapdash/domain/gapminder"
	"gapdash/internal/errors"
	"gapdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// dashboardPage is the data behind index.html and the dashboard fragment
type dashboardPage struct {
	Title            string
	Continents       []string
	Selected         string
	Count            int
	Stats            string
	ChartsJSON       template.JS
	SummaryAvailable bool
	Model            string
	Error            string
}

// summaryFragment is the data behind the summary fragment
type summaryFragment struct {
	Continent string
	HTML      template.HTML
	Failure   *app.Failure
	Model     string
	Duration  time.Duration
	Shared    bool
}

// handleIndex renders the dashboard for ?continent=, the whole page or just the
// dashboard section for htmx swaps
func (s *Server) handleIndex(c *gin.Context) {
	status := http.StatusOK
	page := dashboardPage{
		Title:            "Interactive Dashboard: Gapminder 2007",
		Continents:       s.dashboard.Continents(),
		SummaryAvailable: s.summaries.Available(),
		Model:            s.summaries.Model(),
	}

	view, err := s.dashboard.Select(c.Query("continent"))
	if err != nil {
		log.Printf("[Dashboard] rejected selection %q: %v", c.Query("continent"), err)
		status = http.StatusBadRequest
		page.Error = fmt.Sprintf("Unknown continent %q", c.Query("continent"))
		view = gapminder.Filter(s.dashboard.Dataset(), s.dashboard.Dataset().DefaultContinent())
	}

	charts, err := json.Marshal(s.dashboard.Charts(view))
	if err != nil {
		log.Printf("[Dashboard] failed to encode charts: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	page.Selected = view.Continent
	page.Count = view.Len()
	page.Stats = s.dashboard.Describe(view).String()
	page.ChartsJSON = template.JS(charts)

	if isHTMX(c) {
		s.renderTemplate(c, status, "dashboard.html", page)
		return
	}
	s.renderTemplate(c, status, "index.html", page)
}

// handleSummary runs the summary stage for the posted continent. Generation
// failures are rendered in the fragment; only an invalid selection is a 400.
func (s *Server) handleSummary(c *gin.Context) {
	continent := c.PostForm("continent")
	view, err := s.dashboard.Select(continent)
	if err != nil {
		s.renderTemplate(c, http.StatusBadRequest, "summary.html", summaryFragment{
			Continent: continent,
			Failure: &app.Failure{
				Kind:    app.FailureInvalidInput,
				Message: fmt.Sprintf("Invalid selection: unknown continent %q", continent),
			},
		})
		return
	}

	result := s.summaries.Summarize(c.Request.Context(), view)
	fragment := summaryFragment{
		Continent: view.Continent,
		Model:     result.Model,
		Duration:  result.Duration,
		Shared:    result.Shared,
		Failure:   result.Failure,
	}
	if result.OK() {
		fragment.HTML = template.HTML(renderMarkdown(result.Text))
	} else {
		log.Printf("[Dashboard] request %s: summary failed: %s", middleware.GetRequestID(c), result.Failure.Message)
	}
	s.renderTemplate(c, http.StatusOK, "summary.html", fragment)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	s.export(c, "xlsx", xlsxContentType, func(buf *bytes.Buffer, view gapminder.View) error {
		return excel.WriteXLSX(buf, view)
	})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	s.export(c, "csv", "text/csv; charset=utf-8", func(buf *bytes.Buffer, view gapminder.View) error {
		return excel.WriteCSV(buf, view)
	})
}

func (s *Server) export(c *gin.Context, ext, contentType string, write func(*bytes.Buffer, gapminder.View) error) {
	view, err := s.dashboard.Select(c.Query("continent"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": errors.GetCode(err), "error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, view); err != nil {
		log.Printf("[Export] failed to write %s for %s: %v", ext, view.Continent, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("gapminder_%s.%s", strings.ToLower(view.Continent), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"records":           s.dashboard.Dataset().Len(),
		"continents":        len(s.dashboard.Continents()),
		"summary_available": s.summaries.Available(),
		"model":             s.summaries.Model(),
	})
}
