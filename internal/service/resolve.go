package service

import (
	"context"
	"sort"
	"strings"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/textnorm"
	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps the suggestions returned for an unknown name.
const maxSuggestions = 3

// Suggestion is a known ingredient that is spelled like an unknown input.
type Suggestion struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Resolution is returned by Resolve for each input name.
type Resolution struct {
	Input       string       `json:"input"`
	Canonical   string       `json:"canonical"`
	Known       bool         `json:"known"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// similarity returns a 0.0–1.0 confidence score between two strings using
// Levenshtein distance: 1.0 - distance/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Suggest returns up to limit canonical names whose name or any alias scores
// at least threshold against name, best first. Suggestions never affect
// filtering; they are hints for a caller whose input did not resolve.
func (c *Catalog) Suggest(name string, threshold float64, limit int) []Suggestion {
	key := textnorm.Normalize(name)
	if key == "" || limit <= 0 {
		return nil
	}

	best := make(map[string]float64)
	score := func(form, canonical string) {
		if s := similarity(key, form); s >= threshold && s > best[canonical] {
			best[canonical] = s
		}
	}
	for form, canonical := range c.names {
		score(form, canonical)
	}
	for form, canonical := range c.aliases {
		score(form, canonical)
	}

	out := make([]Suggestion, 0, len(best))
	for n, s := range best {
		out = append(out, Suggestion{Name: n, Confidence: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Resolve maps each raw name to its canonical name. Unknown names keep their
// trimmed spelling and carry fuzzy suggestions above the configured
// threshold.
func (s *Service) Resolve(ctx context.Context, rawNames []string) ([]Resolution, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Resolution, 0, len(rawNames))
	for _, raw := range rawNames {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		res := Resolution{Input: raw}
		if v, ok := snap.Catalog.Resolve(raw); ok {
			res.Canonical = v
			res.Known = true
		} else {
			res.Canonical = strings.TrimSpace(raw)
			res.Suggestions = snap.Catalog.Suggest(raw, s.threshold, maxSuggestions)
		}
		out = append(out, res)
	}
	return out, nil
}
