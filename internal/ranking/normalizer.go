package ranking

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

var annotationRe = regexp.MustCompile(`\([^)]*\)`)

// Collision records a header that resolved to a canonical name already taken
// by an earlier column. Renamed is the column name it was given instead.
type Collision struct {
	Header    string
	Canonical string
	Renamed   string
}

// Normalizer renames raw survey headers to canonical category names.
type Normalizer struct {
	aliases       map[string]string
	byKey         map[string]string
	keys          []string
	fuzzyDistance int
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithFuzzyDistance enables a Levenshtein fallback: a header whose canonical
// key is within d edits of a known key is renamed to that key's target.
// Zero disables the fallback.
func WithFuzzyDistance(d int) NormalizerOption {
	return func(n *Normalizer) {
		n.fuzzyDistance = d
	}
}

// NewNormalizer builds a Normalizer from raw-spelling aliases and the
// canonical names they may resolve to. The Restaurant and Respondent Name
// columns are always treated as canonical names.
func NewNormalizer(aliases map[string]string, canonical []string, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string, len(aliases)),
		byKey:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(n)
	}

	names := append([]string{ColumnRestaurant, ColumnRespondent}, canonical...)
	for _, name := range names {
		n.byKey[canonicalKey(name)] = name
	}
	// Alias keys take precedence over same-keyed canonical names.
	for raw, target := range aliases {
		n.aliases[raw] = target
		n.byKey[canonicalKey(raw)] = target
	}

	n.keys = make([]string, 0, len(n.byKey))
	for k := range n.byKey {
		n.keys = append(n.keys, k)
	}
	sort.Strings(n.keys)
	return n
}

// Resolve returns the canonical name for a raw header and whether one was
// found. Unmatched headers are returned unchanged.
func (n *Normalizer) Resolve(header string) (string, bool) {
	if target, ok := n.aliases[header]; ok {
		return target, true
	}
	key := canonicalKey(header)
	if target, ok := n.byKey[key]; ok {
		return target, true
	}
	if n.fuzzyDistance > 0 && key != "" {
		best, bestDist := "", n.fuzzyDistance+1
		for _, k := range n.keys {
			if d := levenshtein.ComputeDistance(key, k); d < bestDist {
				best, bestDist = k, d
			}
		}
		if best != "" {
			return n.byKey[best], true
		}
	}
	return header, false
}

// Normalize returns a copy of t with matching headers renamed. Rows are shared
// with t and must not be modified. When two headers resolve to the same name
// the first keeps it and the rest keep their original spelling. Column names
// in the result are unique: a name already in use gets a " (2)", " (3)", ...
// suffix.
func (n *Normalizer) Normalize(t *Table) (*Table, []Collision) {
	cols := make([]string, len(t.Columns))
	taken := make(map[string]bool, len(t.Columns))
	var collisions []Collision

	for i, h := range t.Columns {
		name, ok := n.Resolve(h)
		if taken[name] {
			canonical := name
			name = unique(h, taken)
			if ok {
				collisions = append(collisions, Collision{Header: h, Canonical: canonical, Renamed: name})
			}
		}
		cols[i] = name
		taken[name] = true
	}
	return &Table{Columns: cols, Rows: t.Rows}, collisions
}

func unique(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + " (" + strconv.Itoa(i) + ")"
		if !taken[candidate] {
			return candidate
		}
	}
}

// canonicalKey reduces a header to the form used for tolerant matching:
// Unicode-compatibility normalised, parenthesised scale annotations removed,
// whitespace collapsed and trimmed.
func canonicalKey(h string) string {
	h = norm.NFKC.String(h)
	h = annotationRe.ReplaceAllString(h, " ")
	return strings.Join(strings.Fields(h), " ")
}
