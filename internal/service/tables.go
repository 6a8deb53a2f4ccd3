package service

import (
	"context"
	"time"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/google/uuid"
)

// ResultTable is one filtered auxiliary table with its display columns.
type ResultTable struct {
	Name    refdata.TableName `json:"name"`
	Title   string            `json:"title"`
	Columns []string          `json:"columns"`
	Rows    []refdata.Row     `json:"rows"`
}

// Result is the output of RenderTables.
type Result struct {
	DatasetID   uuid.UUID     `json:"dataset_id"`
	LoadedAt    time.Time     `json:"loaded_at"`
	Ingredients []string      `json:"ingredients"`
	Tables      []ResultTable `json:"tables"`
}

// RenderTables canonicalizes names and filters every auxiliary table down to
// the rows for those ingredients. With no names every row is returned. The
// only error is a *LoadError (or ctx's error while waiting for the load).
func (s *Service) RenderTables(ctx context.Context, names []string) (*Result, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Filter(names), nil
}

// Filter applies RenderTables to an already loaded snapshot.
func (snap *Snapshot) Filter(names []string) *Result {
	canonical := snap.Catalog.CanonicalizeList(names)
	target := NewIngredientSet(canonical)

	res := &Result{
		DatasetID:   snap.ID,
		LoadedAt:    snap.LoadedAt,
		Ingredients: canonical,
		Tables:      make([]ResultTable, 0, len(refdata.AuxiliaryTables)),
	}
	for _, name := range refdata.AuxiliaryTables {
		rows := FilterRows(snap.Catalog, snap.Tables[name].Rows, target)
		res.Tables = append(res.Tables, ResultTable{
			Name:    name,
			Title:   name.Title(),
			Columns: ChooseDisplayColumns(rows),
			Rows:    rows,
		})
	}
	return res
}
