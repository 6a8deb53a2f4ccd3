package refdata

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPProvider fetches the table CSV files relative to a base URL, the way
// the published data drop is laid out on the static host.
type HTTPProvider struct {
	client *resty.Client
}

// NewHTTPProvider creates an HTTPProvider for baseURL.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	return &HTTPProvider{client: client}
}

// Fetch downloads and parses one table.
func (p *HTTPProvider) Fetch(ctx context.Context, name TableName) (Table, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(name.FileName())
	if err != nil {
		return Table{}, fmt.Errorf("fetch %s: %w", name.FileName(), err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Table{}, fmt.Errorf("fetch %s: %w", name.FileName(), ErrTableNotFound)
	case resp.IsError():
		return Table{}, fmt.Errorf("fetch %s: unexpected status %s", name.FileName(), resp.Status())
	}
	return ParseCSV(name, bytes.NewReader(resp.Body()))
}
