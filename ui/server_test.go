package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"gapdash/adapters/api"
	"gapdash/adapters/llm"
	"gapdash/app"
	"gapdash/domain/gapminder"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T, client *llm.MockClient) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, err := gapminder.NewDataset([]gapminder.Record{
		{Country: "Japan", Continent: "Asia", Year: 2007, LifeExp: 82.603, Pop: 127467972, GDPPercap: 31656.07},
		{Country: "India", Continent: "Asia", Year: 2007, LifeExp: 64.698, Pop: 1110396331, GDPPercap: 2452.21},
		{Country: "Norway", Continent: "Europe", Year: 2007, LifeExp: 80.196, Pop: 4627926, GDPPercap: 49357.19},
	})
	require.NoError(t, err)

	dashboard := app.NewDashboardService(ds, app.NewChartService())
	var summaries *app.SummaryService
	if client != nil {
		summaries = app.NewSummaryService(client, app.SummaryConfig{Model: "test-model"}, nil)
	} else {
		summaries = app.NewSummaryService(nil, app.SummaryConfig{Model: "test-model"}, nil)
	}

	server, err := NewServer(os.DirFS("templates"), Config{
		Dashboard: dashboard,
		Summaries: summaries,
		API:       api.NewHandler(dashboard, summaries, nil).Routes(),
	})
	require.NoError(t, err)
	return server
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex_DefaultContinent(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "</html>")
	assert.Contains(t, body, "2 countries in Asia")
	assert.Contains(t, body, `<option value="Asia" selected>`)
	assert.Contains(t, body, "Summaries are disabled")
}

func TestIndex_HTMXReturnsFragment(t *testing.T) {
	s := newTestServer(t, &llm.MockClient{Response: "ok"})
	req := httptest.NewRequest(http.MethodGet, "/?continent=Europe", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "</html>")
	assert.Contains(t, body, `id="dashboard"`)
	assert.Contains(t, body, "1 countries in Europe")
	assert.Contains(t, body, "Generate Summary")
}

func TestIndex_UnknownContinent(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/?continent=Atlantis", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown continent")
}

func postSummary(s *Server, continent string) *httptest.ResponseRecorder {
	form := url.Values{"continent": {continent}}
	req := httptest.NewRequest(http.MethodPost, "/summary", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return serve(s, req)
}

func TestSummary_RendersMarkdown(t *testing.T) {
	client := &llm.MockClient{Response: "**Asia** spans a wide range.\n\n<script>alert(1)</script>"}
	s := newTestServer(t, client)

	rec := postSummary(s, "Asia")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Summary Generated:")
	assert.Contains(t, body, "<strong>Asia</strong>")
	assert.NotContains(t, body, "<script>")

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[1].Content, "Japan")
}

func TestSummary_FailureFragment(t *testing.T) {
	client := &llm.MockClient{Error: &llm.StatusError{StatusCode: 500, Body: "boom"}}
	s := newTestServer(t, client)

	rec := postSummary(s, "Europe")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate summary")
}

func TestSummary_Unavailable(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postSummary(s, "Asia")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate summary")
}

func TestSummary_UnknownContinent(t *testing.T) {
	s := newTestServer(t, &llm.MockClient{Response: "x"})
	rec := postSummary(s, "Atlantis")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-kind="invalid_input"`)
	assert.Contains(t, body, "Invalid selection")
	assert.NotContains(t, body, "Failed to generate summary")
}

func TestSummary_StripsUnsafeLinks(t *testing.T) {
	client := &llm.MockClient{Response: "See [details](javascript:stealCookies) and [source](https://www.gapminder.org)."}
	s := newTestServer(t, client)

	rec := postSummary(s, "Asia")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "javascript:")
	assert.Contains(t, body, `href="https://www.gapminder.org"`)
}

func TestExportXLSX(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/export.xlsx?continent=Asia", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gapminder_asia.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Asia")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportCSV_UnknownContinent(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/export.csv?continent=Atlantis", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":3`)
	assert.Contains(t, rec.Body.String(), `"summary_available":false`)
}

func TestAPIMounted(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/continents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"default":"Asia"`)
}
