package service

import (
	"sort"
	"strings"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/textnorm"
)

// scanTerm is a normalized name or alias searched for in free text.
type scanTerm struct {
	padded    string
	canonical string
}

// scanBreaks are characters treated as word separators when scanning text.
// Hyphens and apostrophes stay inside words.
const scanBreaks = ",.()/&;:!?\""

func breakWords(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(scanBreaks, r) {
			return ' '
		}
		return r
	}, s)
}

// scanForm is the normalized form of s with word separators turned into
// single spaces.
func scanForm(s string) string {
	return strings.Join(strings.Fields(breakWords(textnorm.Normalize(breakWords(s)))), " ")
}

func buildScanTerms(names, aliases map[string]string) []scanTerm {
	seen := make(map[string]struct{}, len(names)+len(aliases))
	terms := make([]scanTerm, 0, len(names)+len(aliases))
	add := func(key, canonical string) {
		form := scanForm(key)
		if form == "" {
			return
		}
		if _, ok := seen[form]; ok {
			return
		}
		seen[form] = struct{}{}
		terms = append(terms, scanTerm{padded: " " + form + " ", canonical: canonical})
	}
	// Names are added first so they win over an alias with the same form.
	for _, key := range sortedKeys(names) {
		add(key, names[key])
	}
	for _, key := range sortedKeys(aliases) {
		if _, ok := names[key]; ok {
			continue
		}
		add(key, aliases[key])
	}
	return terms
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeriveIngredients scans free text for whole-word occurrences of known
// canonical names and aliases and returns the matching canonical names in
// order of first occurrence. Ties at the same position go to the longer
// term.
func (c *Catalog) DeriveIngredients(text string) []string {
	form := scanForm(text)
	if form == "" {
		return []string{}
	}
	padded := " " + form + " "

	type hit struct {
		canonical string
		at        int
		length    int
	}
	first := make(map[string]hit)
	for _, t := range c.terms {
		at := strings.Index(padded, t.padded)
		if at < 0 {
			continue
		}
		if h, ok := first[t.canonical]; ok && h.at <= at {
			continue
		}
		first[t.canonical] = hit{canonical: t.canonical, at: at, length: len(t.padded)}
	}

	hits := make([]hit, 0, len(first))
	for _, h := range first {
		hits = append(hits, h)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].at != hits[j].at {
			return hits[i].at < hits[j].at
		}
		if hits[i].length != hits[j].length {
			return hits[i].length > hits[j].length
		}
		return hits[i].canonical < hits[j].canonical
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.canonical
	}
	return out
}
