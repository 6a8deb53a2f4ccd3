package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/api"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/mocks"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/service"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// helpers

func referenceTables() map[refdata.TableName]refdata.Table {
	return map[refdata.TableName]refdata.Table{
		refdata.Master: {Rows: []refdata.Row{
			refdata.NewRow("ingredient_name", "Turmeric", "aliases", "haldi, curcuma"),
			refdata.NewRow("ingredient_name", "Kale"),
		}},
		refdata.Nutrition: {Rows: []refdata.Row{
			refdata.NewRow("ingredient", "Kale", "kcal", "49"),
			refdata.NewRow("ingredient", "Turmeric", "kcal", "312"),
		}},
		refdata.Cognitive: {Rows: []refdata.Row{
			refdata.NewRow("ingredient_name", "Turmeric", "benefit", "anti-inflammatory", "Unnamed: 3", "x"),
		}},
		refdata.Diet: {Rows: []refdata.Row{
			refdata.NewRow("food", "Kale", "keto", "yes"),
		}},
	}
}

func setupRouter(t *testing.T) (*mocks.MockProvider, http.Handler) {
	t.Helper()
	mockP := mocks.NewMockProvider(t)
	svc := service.New(mockP, 0.8)
	router := api.NewRouter(svc)
	return mockP, router
}

func serveTables(mockP *mocks.MockProvider, tables map[refdata.TableName]refdata.Table) {
	mockP.EXPECT().Fetch(mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, name refdata.TableName) (refdata.Table, error) {
			if tbl, ok := tables[name]; ok {
				return tbl, nil
			}
			return refdata.Table{}, refdata.ErrTableNotFound
		})
}

func failLoad(mockP *mocks.MockProvider) {
	mockP.EXPECT().Fetch(mock.Anything, mock.Anything).Return(refdata.Table{}, errors.New("dial tcp: connection refused"))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

func do(router http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// GET /healthz
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	t.Parallel()
	_, router := setupRouter(t)

	rec := do(router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Dataset-ID"), "nothing loaded yet")
}

func TestHealthz_ReportsDataset(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ingredients", nil).Code)
	rec := do(router, http.MethodGet, "/healthz", nil)

	assert.NotEmpty(t, rec.Header().Get("X-Dataset-ID"))
}

// ---------------------------------------------------------------------------
// GET /ingredients
// ---------------------------------------------------------------------------

func TestListIngredients(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodGet, "/ingredients", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var items []service.Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	assert.Equal(t, []service.Entry{
		{Name: "Turmeric", Aliases: []string{"haldi", "curcuma"}},
		{Name: "Kale", Aliases: []string{}},
	}, items)
}

func TestListIngredients_LoadFailure(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	failLoad(mockP)

	rec := do(router, http.MethodGet, "/ingredients", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "reference data unavailable", body["error"])
}

// ---------------------------------------------------------------------------
// POST /ingredients/resolve
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodPost, "/ingredients/resolve",
		jsonBody(t, map[string]any{"name": "HALDI", "names": []string{"Tumeric", "Moon Cheese"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	var results []service.Resolution
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	require.Len(t, results, 3)

	assert.Equal(t, "Turmeric", results[0].Canonical)
	assert.True(t, results[0].Known)

	assert.False(t, results[1].Known)
	require.NotEmpty(t, results[1].Suggestions)
	assert.Equal(t, "Turmeric", results[1].Suggestions[0].Name)

	assert.Equal(t, "Moon Cheese", results[2].Canonical)
	assert.Empty(t, results[2].Suggestions)
}

func TestResolve_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "invalid json", body: "{", want: "invalid request body"},
		{name: "no names", body: `{"names":[]}`, want: "name or names is required"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, router := setupRouter(t)

			rec := do(router, http.MethodPost, "/ingredients/resolve", bytes.NewBufferString(tc.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

// ---------------------------------------------------------------------------
// POST /ingredients/derive
// ---------------------------------------------------------------------------

func TestDerive(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodPost, "/ingredients/derive",
		jsonBody(t, map[string]string{"text": "Massage the kale, then dust with curcuma."}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Ingredients []string `json:"ingredients"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"Kale", "Turmeric"}, body.Ingredients)
}

// ---------------------------------------------------------------------------
// POST /tables
// ---------------------------------------------------------------------------

type tablesResponse struct {
	DatasetID   string   `json:"dataset_id"`
	Ingredients []string `json:"ingredients"`
	Tables      []struct {
		Name    string              `json:"name"`
		Columns []string            `json:"columns"`
		Rows    []map[string]string `json:"rows"`
	} `json:"tables"`
}

func TestPostTables_AliasResolvesToCanonicalRows(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodPost, "/tables", jsonBody(t, map[string]any{"ingredients": []string{"haldi"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tablesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.DatasetID)
	assert.Equal(t, []string{"Turmeric"}, resp.Ingredients)
	require.Len(t, resp.Tables, 4)

	rows := map[string]int{}
	for _, tbl := range resp.Tables {
		rows[tbl.Name] = len(tbl.Rows)
		if tbl.Name == "cognitive" {
			assert.Equal(t, []string{"ingredient_name", "benefit"}, tbl.Columns)
			assert.Equal(t, "anti-inflammatory", tbl.Rows[0]["benefit"])
		}
	}
	assert.Equal(t, map[string]int{"nutrition": 1, "cognitive": 1, "diet": 0, "microbiome": 0}, rows)
}

func TestPostTables_LoadFailure(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	failLoad(mockP)

	rec := do(router, http.MethodPost, "/tables", jsonBody(t, map[string]any{"ingredients": []string{"kale"}}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPostTables_InvalidBody(t *testing.T) {
	t.Parallel()
	_, router := setupRouter(t)

	rec := do(router, http.MethodPost, "/tables", bytes.NewBufferString("not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// GET /tables
// ---------------------------------------------------------------------------

func TestGetTables_JSON(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodGet, "/tables?ingredient=kale&ingredient=Moon+Cheese", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tablesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Kale", "Moon Cheese"}, resp.Ingredients)
}

func TestGetTables_NoIngredientsReturnsAllRows(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodGet, "/tables", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tablesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	for _, tbl := range resp.Tables {
		if tbl.Name == "nutrition" {
			assert.Len(t, tbl.Rows, 2)
		}
	}
}

func TestGetTables_HTML(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodGet, "/tables?ingredient=curcuma&format=html", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(`table[data-table="cognitive"] tbody tr`).Length())
	assert.Equal(t, "anti-inflammatory", doc.Find(`table[data-table="cognitive"] td`).Eq(1).Text())
	assert.Equal(t, 2, doc.Find("p.empty").Length(), "diet and microbiome have no Turmeric rows")
}

func TestGetTables_HTMLLoadFailure(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	failLoad(mockP)

	rec := do(router, http.MethodGet, "/tables?format=html", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".load-error").Length())
}

func TestGetTables_XLSX(t *testing.T) {
	t.Parallel()
	mockP, router := setupRouter(t)
	serveTables(mockP, referenceTables())

	rec := do(router, http.MethodGet, "/tables?ingredient=Kale&format=xlsx", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reference-tables.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	rows, err := f.GetRows("Diet Compatibility")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"food", "keto"}, rows[0])
	assert.Equal(t, []string{"Kale", "yes"}, rows[1])
}

func TestGetTables_BadFormat(t *testing.T) {
	t.Parallel()
	_, router := setupRouter(t)

	rec := do(router, http.MethodGet, "/tables?format=pdf", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
