package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirProvider_Fetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nutrition.csv"),
		[]byte("ingredient_name,kcal\nKale,49\n"), 0o644))

	p := NewDirProvider(dir)

	tbl, err := p.Fetch(context.Background(), Nutrition)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "49", tbl.Rows[0].Get("kcal"))

	_, err = p.Fetch(context.Background(), Microbiome)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDirProvider_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirProvider(t.TempDir()).Fetch(ctx, Master)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPProvider_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/cognitive_benefits.csv":
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte("ingredient_name,benefit\nTurmeric,anti-inflammatory\n")) //nolint:errcheck
		case "/data/diet_compatibility.csv":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	p := NewHTTPProvider(srv.URL+"/data/", 5*time.Second)

	tbl, err := p.Fetch(context.Background(), Cognitive)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Turmeric", tbl.Rows[0].KeyValue())
	assert.Equal(t, Cognitive, tbl.Name)

	_, err = p.Fetch(context.Background(), Microbiome)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = p.Fetch(context.Background(), Diet)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), "500")
}
