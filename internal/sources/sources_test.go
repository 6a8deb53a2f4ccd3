package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/config"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "master.csv"), []byte("name\nKale\n"), 0o644))

	p, closeFn, err := Open(context.Background(), config.Config{DataSource: config.SourceDir, DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, closeFn()) })

	require.IsType(t, &refdata.DirProvider{}, p)
	tbl, err := p.Fetch(context.Background(), refdata.Master)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)
}

func TestOpen_HTTPWithoutCache(t *testing.T) {
	t.Parallel()

	p, closeFn, err := Open(context.Background(), config.Config{
		DataSource:  config.SourceHTTP,
		DataURL:     "http://127.0.0.1:1/data/",
		HTTPTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, closeFn()) })
	assert.IsType(t, &refdata.HTTPProvider{}, p)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "bad redis url",
			cfg:  config.Config{DataSource: config.SourceHTTP, DataURL: "http://x/", RedisURL: "not a url", HTTPTimeout: time.Second},
			want: "connect cache",
		},
		{
			name: "postgres without url",
			cfg:  config.Config{DataSource: config.SourcePostgres},
			want: "DB_URL",
		},
		{
			name: "unknown source",
			cfg:  config.Config{DataSource: "ftp"},
			want: "unknown data source",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, closeFn, err := Open(context.Background(), tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Nil(t, p)
			assert.Nil(t, closeFn)
		})
	}
}
