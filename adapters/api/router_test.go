package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gapdash/adapters/llm"
	"gapdash/app"
	"gapdash/domain/gapminder"
	"gapdash/internal/usage"
	"gapdash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T, client *llm.MockClient, usageReader UsageReader) http.Handler {
	t.Helper()
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
	return NewHandler(dashboard, summaries, usageReader).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestContinents(t *testing.T) {
	h := testHandler(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/continents", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp continentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Asia", "Europe"}, resp.Continents)
	assert.Equal(t, "Asia", resp.Default)
}

func TestRecords(t *testing.T) {
	h := testHandler(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/records?continent=Europe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp recordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Europe", resp.Continent)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Norway", resp.Records[0].Country)

	rec = do(t, h, http.MethodGet, "/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Asia", resp.Continent)
	assert.Equal(t, 2, resp.Count)
}

func TestRecords_UnknownContinent(t *testing.T) {
	h := testHandler(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/records?continent=Atlantis", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestDescribe(t *testing.T) {
	h := testHandler(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/describe?continent=Europe", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Europe", resp["continent"])
	assert.Contains(t, resp["text"], "gdpPercap")
}

func TestCharts(t *testing.T) {
	h := testHandler(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/charts?continent=Asia", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var charts app.Charts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &charts))
	assert.Len(t, charts.Scatter.Data, 2)
	assert.Equal(t, "log", charts.Scatter.Layout.XAxis.Type)
}

func TestSummary_Success(t *testing.T) {
	client := &llm.MockClient{Response: "Asia is diverse."}
	h := testHandler(t, client, nil)

	rec := do(t, h, http.MethodPost, "/summary", `{"continent":"Asia"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result app.SummaryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Asia is diverse.", result.Text)
	assert.Nil(t, result.Failure)
	assert.Equal(t, "Asia", result.Continent)
	require.Len(t, client.Requests(), 1)
}

func TestSummary_FailureIsContained(t *testing.T) {
	client := &llm.MockClient{Error: &llm.StatusError{StatusCode: 401, Body: "bad key"}}
	h := testHandler(t, client, nil)

	rec := do(t, h, http.MethodPost, "/summary", `{"continent":"Europe"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result app.SummaryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Failure)
	assert.Equal(t, app.FailureService, result.Failure.Kind)
	assert.Empty(t, result.Text)
}

func TestSummary_BadRequests(t *testing.T) {
	h := testHandler(t, &llm.MockClient{Response: "x"}, nil)

	rec := do(t, h, http.MethodPost, "/summary", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/summary", `{"continent":"Atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsage(t *testing.T) {
	repo := usage.NewMemoryRepository(10)
	svc := usage.NewService(repo)
	require.NoError(t, repo.RecordUsage(context.Background(), &models.LLMUsage{
		Continent:   "Asia",
		Outcome:     models.OutcomeSuccess,
		TotalTokens: 42,
	}))
	h := testHandler(t, nil, svc)

	rec := do(t, h, http.MethodGet, "/usage?window=1h", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.UsageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.RequestCount)
	assert.Equal(t, 42, summary.TotalTokens)

	rec = do(t, h, http.MethodGet, "/usage/recent?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/usage?window=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsage_Disabled(t *testing.T) {
	h := testHandler(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/usage/recent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingUsage struct{}

func (failingUsage) Recent(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	return nil, errors.New("db down")
}

func (failingUsage) Summary(ctx context.Context, window time.Duration) (*models.UsageSummary, error) {
	return nil, errors.New("db down")
}

func TestUsage_RepositoryError(t *testing.T) {
	h := testHandler(t, nil, failingUsage{})
	rec := do(t, h, http.MethodGet, "/usage", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
