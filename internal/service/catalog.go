package service

import (
	"strings"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/textnorm"
)

// Entry is one canonical ingredient with the display aliases that resolve to it.
type Entry struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Catalog resolves free-form ingredient names to canonical names using the
// name and alias indexes built from the master table. A Catalog is read-only
// after Build and safe for concurrent readers.
type Catalog struct {
	names   map[string]string // normalized name -> canonical name
	aliases map[string]string // normalized alias -> canonical name
	entries []Entry
	pos     map[string]int // canonical name -> index into entries
	terms   []scanTerm
}

// NewCatalog builds a Catalog from the master table.
func NewCatalog(master refdata.Table) *Catalog {
	c := &Catalog{}
	c.Build(master)
	return c
}

// Build discards any existing indexes and rebuilds them from master.
// Rows without an ingredient name are skipped. On a normalized collision the
// first row wins and a later duplicate row's aliases attach to the first
// row's canonical name.
func (c *Catalog) Build(master refdata.Table) {
	c.names = make(map[string]string)
	c.aliases = make(map[string]string)
	c.entries = nil
	c.pos = make(map[string]int)

	type pending struct {
		canonical string
		tokens    aliasTokens
	}
	var rows []pending

	for _, row := range master.Rows {
		if row.IsBlank() {
			continue
		}
		raw := row.KeyValue()
		key := textnorm.Normalize(raw)
		if key == "" {
			continue
		}

		canonical, ok := c.names[key]
		if !ok {
			canonical = raw
			c.names[key] = canonical
			c.pos[canonical] = len(c.entries)
			c.entries = append(c.entries, Entry{Name: canonical, Aliases: []string{}})
		}

		tokens := splitAliases(row.AliasValue())
		for _, tok := range tokens {
			if _, ok := c.aliases[tok.key]; !ok {
				c.aliases[tok.key] = canonical
			}
		}
		rows = append(rows, pending{canonical: canonical, tokens: tokens})
	}

	// Only list aliases that actually resolve to their entry.
	for _, p := range rows {
		var live []string
		for _, tok := range p.tokens {
			if v, _ := c.Resolve(tok.display); v == p.canonical {
				live = append(live, tok.display)
			}
		}
		e := &c.entries[c.pos[p.canonical]]
		e.Aliases = mergeAliases(e.Aliases, live, p.canonical)
	}

	c.terms = buildScanTerms(c.names, c.aliases)
}

// Resolve returns the canonical name for nameOrAlias. The name index is
// consulted before the alias index.
func (c *Catalog) Resolve(nameOrAlias string) (string, bool) {
	key := textnorm.Normalize(nameOrAlias)
	if key == "" {
		return "", false
	}
	if v, ok := c.names[key]; ok {
		return v, true
	}
	if v, ok := c.aliases[key]; ok {
		return v, true
	}
	return "", false
}

// Canonical resolves name, falling back to the trimmed input when the name is
// unknown. It returns "" for blank input.
func (c *Catalog) Canonical(name string) string {
	if v, ok := c.Resolve(name); ok {
		return v
	}
	return strings.TrimSpace(name)
}

// CanonicalizeList maps names to canonical names in first-seen order without
// duplicates. Unknown names keep their trimmed spelling; blank names are
// dropped.
func (c *Catalog) CanonicalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		v := c.Canonical(n)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Names returns the canonical names in master table order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns every canonical ingredient with its aliases, in master
// table order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{Name: e.Name, Aliases: append([]string{}, e.Aliases...)}
	}
	return out
}

// Len returns the number of canonical ingredients.
func (c *Catalog) Len() int { return len(c.entries) }

type aliasToken struct {
	key     string
	display string
}

type aliasTokens []aliasToken

func splitAliases(raw string) aliasTokens {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := make(aliasTokens, 0, len(parts))
	for _, p := range parts {
		key := textnorm.Normalize(p)
		if key == "" {
			continue
		}
		out = append(out, aliasToken{key: key, display: strings.TrimSpace(p)})
	}
	return out
}
