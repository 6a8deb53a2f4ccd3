package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/cache"
)

// TableCache is the byte store CachedProvider keeps fetched tables in.
type TableCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedProvider serves tables from a TableCache and falls through to the
// wrapped provider on a miss. Cache failures never fail a fetch.
type CachedProvider struct {
	next      Provider
	cache     TableCache
	namespace string
	ttl       time.Duration
}

// NewCachedProvider wraps next. namespace separates entries of different
// sources sharing one cache.
func NewCachedProvider(next Provider, c TableCache, namespace string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: c, namespace: namespace, ttl: ttl}
}

type cachedRow struct {
	Columns []string `json:"c"`
	Values  []string `json:"v"`
}

// Fetch returns the cached table when present, otherwise fetches and stores it.
func (p *CachedProvider) Fetch(ctx context.Context, name TableName) (Table, error) {
	key := p.namespace + ":" + string(name)

	data, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		t, derr := decodeTable(name, data)
		if derr == nil {
			slog.Debug("reference table served from cache", "table", name, "rows", len(t.Rows))
			return t, nil
		}
		slog.Warn("discarding undecodable cached table", "table", name, "error", derr)
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("table cache read failed", "table", name, "error", err)
	}

	t, err := p.next.Fetch(ctx, name)
	if err != nil {
		return Table{}, err
	}

	payload, err := encodeTable(t)
	if err != nil {
		slog.Warn("encode table for cache", "table", name, "error", err)
		return t, nil
	}
	if err := p.cache.Set(ctx, key, payload, p.ttl); err != nil {
		slog.Warn("table cache write failed", "table", name, "error", err)
	}
	return t, nil
}

func encodeTable(t Table) ([]byte, error) {
	rows := make([]cachedRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = cachedRow{Columns: r.Columns(), Values: r.Values()}
	}
	return json.Marshal(rows)
}

func decodeTable(name TableName, data []byte) (Table, error) {
	var rows []cachedRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return Table{}, err
	}
	t := Table{Name: name, Rows: make([]Row, len(rows))}
	for i, r := range rows {
		t.Rows[i] = RowOf(r.Columns, r.Values)
	}
	return t, nil
}
