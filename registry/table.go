package registry

import (
	"cmp"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/ftmpl/lang"
)

// maxSuggestions bounds the names returned by [Table.Suggest].
const maxSuggestions = 3

// Table is a concurrency-safe set of feature definitions keyed by name.
// The zero value is an empty table ready to use.
type Table struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// New returns a table holding defs. It fails on the first definition that
// is invalid or duplicates an earlier one.
func New(defs ...Definition) (*Table, error) {
	t := new(Table)

	for _, d := range defs {
		if err := t.Register(d); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Register adds d to the table.
func (t *Table) Register(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.defs[d.Name]; ok {
		return ErrDuplicate.With(slog.String("name", d.Name))
	}

	if t.defs == nil {
		t.defs = make(map[string]Definition)
	}

	t.defs[d.Name] = d

	return nil
}

// Resolve implements [lang.Resolver].
func (t *Table) Resolve(name string) (lang.Feature, bool) {
	d, ok := t.Definition(name)
	if !ok {
		return lang.Feature{}, false
	}

	return d.Feature(), true
}

// Definition returns the definition registered under name.
func (t *Table) Definition(name string) (Definition, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d, ok := t.defs[name]

	return d, ok
}

// Len returns the number of registered features.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.defs)
}

// Names returns the registered feature names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Sorted(maps.Keys(t.defs))
}

// All returns an iterator over a snapshot of the definitions, sorted by name.
func (t *Table) All() iter.Seq[Definition] {
	t.mu.RLock()
	defs := slices.SortedFunc(maps.Values(t.defs), func(a, b Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	t.mu.RUnlock()

	return slices.Values(defs)
}

// Suggest implements [lang.Suggester]. It returns up to three registered
// names that fuzzy-match name, best first. Names are matched both ways, so
// a misspelling that drops characters ("tupl") and one that adds them
// ("nn") each find their neighbor.
func (t *Table) Suggest(name string) []string {
	if name == "" {
		return nil
	}

	names := t.Names()

	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		for i, candidate := range names {
			for _, m := range fuzzy.Find(candidate, []string{name}) {
				matches = append(matches, fuzzy.Match{
					Str:   candidate,
					Index: i,
					Score: m.Score,
				})
			}
		}

		slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
			return cmp.Compare(b.Score, a.Score)
		})
	}

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		if m.Str != name {
			out = append(out, m.Str)
		}
	}

	return out
}

// Fingerprint returns a hash of the table's contents. Two tables with the
// same definitions have the same fingerprint regardless of registration
// order.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()

	for d := range t.All() {
		for _, s := range []string{
			d.Name,
			strconv.FormatBool(d.Indexed),
			strconv.Itoa(d.MaxArgs),
			d.Expr,
			d.Doc,
		} {
			_, _ = h.WriteString(s)
			_, _ = h.Write([]byte{0})
		}
	}

	return h.Sum64()
}
