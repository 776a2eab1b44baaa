package search

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/jcdickinson/pywtf/internal/docs"
)

// DefaultLimit caps the number of matches a query returns.
const DefaultLimit = 50

// Tier orders match quality. Lower tiers always rank first.
type Tier int

const (
	TierExact Tier = iota
	TierPrefix
	TierSubstring
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// Span is a half-open byte range of a descriptor name that matched the query.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Result struct {
	Descriptor
	Tier       Tier   `json:"-"`
	Score      int    `json:"score"`
	Highlights []Span `json:"highlights"`
}

// Results is the answer to one query. A nil *Results means no query has been
// run; a non-nil value with no matches is a definite empty answer.
type Results struct {
	Query   string   `json:"query"`
	Matches []Result `json:"matches"`
}

// Total reports how many matches the query produced.
func (r *Results) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}

type Option func(*Index)

// WithLimit overrides DefaultLimit. Non-positive values are ignored.
func WithLimit(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.limit = n
		}
	}
}

// Index is an immutable search index over one project's descriptors.
type Index struct {
	source      *docs.Project
	project     string
	version     string
	descriptors []Descriptor
	limit       int

	arenaOnce sync.Once
	arena     *docs.Arena
}

// New builds an index for p.
func New(p *docs.Project, urls URLBuilder, opts ...Option) *Index {
	ix := &Index{
		descriptors: Build(p, urls),
		limit:       DefaultLimit,
	}
	if p != nil {
		ix.source = p
		ix.project = p.Name
		ix.version = p.Metadata.Version
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

func (ix *Index) Project() string { return ix.project }
func (ix *Index) Version() string { return ix.version }
func (ix *Index) Limit() int      { return ix.limit }

// Source is the project the index was built from.
func (ix *Index) Source() *docs.Project { return ix.source }

// Arena returns the ownership arena of the indexed project, built on first
// use. It is nil for an index built without a project.
func (ix *Index) Arena() *docs.Arena {
	ix.arenaOnce.Do(func() {
		if ix.source != nil {
			ix.arena = docs.NewArena(ix.source)
		}
	})
	return ix.arena
}

// Descriptors returns the indexed descriptors in build order. Callers must
// not modify the returned slice.
func (ix *Index) Descriptors() []Descriptor {
	return ix.descriptors
}

// Search runs query against the index, returning at most Limit matches.
func (ix *Index) Search(query string) *Results {
	return ix.SearchLimit(query, ix.limit)
}

// SearchLimit is Search with a smaller per-call limit. Limits above the
// index limit, or non-positive ones, fall back to the index limit.
func (ix *Index) SearchLimit(query string, limit int) *Results {
	if limit <= 0 || limit > ix.limit {
		limit = ix.limit
	}
	return &Results{Query: query, Matches: Rank(query, ix.descriptors, limit)}
}

// Rank matches query against descriptor names and orders the hits. Exact
// names come first, then prefixes, then contiguous substrings, then
// non-contiguous fuzzy matches. Within a tier the fuzzy score decides, then
// the shorter name, then input order. Matching ignores case. An empty query
// matches nothing.
func Rank(query string, descriptors []Descriptor, limit int) []Result {
	results := []Result{}
	q := strings.TrimSpace(query)
	if q == "" || len(descriptors) == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	lq := strings.ToLower(q)

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	fuzzyByIndex := make(map[int]fuzzy.Match)
	for _, m := range fuzzy.Find(q, names) {
		fuzzyByIndex[m.Index] = m
	}

	type ranked struct {
		Result
		order int
	}
	var hits []ranked
	for i, d := range descriptors {
		fm, fuzzyOK := fuzzyByIndex[i]
		lname := strings.ToLower(d.Name)

		r := Result{Descriptor: d, Score: fm.Score}
		at := strings.Index(lname, lq)
		switch {
		case lname == lq:
			r.Tier = TierExact
		case at == 0:
			r.Tier = TierPrefix
		case at > 0:
			r.Tier = TierSubstring
		case fuzzyOK:
			r.Tier = TierFuzzy
		default:
			continue
		}

		if at >= 0 && len(lname) == len(d.Name) {
			r.Highlights = []Span{{Start: at, End: at + len(lq)}}
		} else {
			r.Highlights = spans(d.Name, fm.MatchedIndexes)
		}
		hits = append(hits, ranked{Result: r, order: i})
	}

	slices.SortFunc(hits, func(a, b ranked) int {
		if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.Name), len(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	for _, h := range hits {
		results = append(results, h.Result)
	}
	return results
}

// spans merges the byte offsets of matched runes in name into contiguous
// ranges.
func spans(name string, indexes []int) []Span {
	var out []Span
	for _, i := range indexes {
		if i < 0 || i >= len(name) {
			continue
		}
		_, size := utf8.DecodeRuneInString(name[i:])
		if n := len(out); n > 0 && out[n-1].End == i {
			out[n-1].End = i + size
			continue
		}
		out = append(out, Span{Start: i, End: i + size})
	}
	return out
}
