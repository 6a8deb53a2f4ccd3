package refdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Provider supplies reference tables by name. Implementations return an
// error wrapping ErrTableNotFound when the table does not exist.
type Provider interface {
	Fetch(ctx context.Context, name TableName) (Table, error)
}

// DirProvider reads <dir>/<table file name> CSV files.
type DirProvider struct {
	Dir string
}

// NewDirProvider creates a DirProvider rooted at dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{Dir: dir}
}

// Fetch opens and parses the table's CSV file.
func (p *DirProvider) Fetch(ctx context.Context, name TableName) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	path := filepath.Join(p.Dir, name.FileName())
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, fmt.Errorf("%s: %w", path, ErrTableNotFound)
		}
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(name, f)
}
