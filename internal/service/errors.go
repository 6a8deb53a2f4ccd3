package service

import (
	"fmt"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
)

// LoadError reports that a reference table could not be loaded. It is the
// only error the rendering operations return.
type LoadError struct {
	Table refdata.TableName
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s table: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
