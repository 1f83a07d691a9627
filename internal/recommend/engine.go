// Package recommend ranks unseen catalog movies by how often their genre
// appears in a user's watch state.
package recommend

import (
	"sort"
	"strings"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
)

// Engine produces recommendations from a fixed catalog. It holds no state
// besides the catalog reference.
type Engine struct {
	catalog *domain.Catalog
}

// New returns an engine over catalog.
func New(catalog *domain.Catalog) *Engine {
	if catalog == nil {
		catalog = domain.NewCatalog()
	}
	return &Engine{catalog: catalog}
}

// genreKey folds case so "Action" and "action" count as one genre. A movie
// without a genre is counted under the zero key, which never matches.
type genreKey struct {
	name  string
	valid bool
}

func keyOf(m domain.Movie) genreKey {
	if m.Genre == nil {
		return genreKey{}
	}
	return genreKey{name: strings.ToLower(*m.Genre), valid: true}
}

type genreCount struct {
	key   genreKey
	count int
}

// histogram counts genres over ids in first-seen order. Ids missing from the
// catalog are ignored.
func (e *Engine) histogram(ids []string) []genreCount {
	var counts []genreCount
	pos := make(map[genreKey]int)
	for _, id := range ids {
		m, ok := e.catalog.Get(id)
		if !ok {
			continue
		}
		k := keyOf(m)
		if i, ok := pos[k]; ok {
			counts[i].count++
			continue
		}
		pos[k] = len(counts)
		counts = append(counts, genreCount{key: k, count: 1})
	}
	return counts
}

// RecommendByGenre returns at most topN movies the user has neither watched
// nor listed, drawn from the user's most frequent genres and ordered by
// rating, highest first.
//
// Genres come from the history, or from the watchlist when no history id
// resolves. Genres are visited by descending count, ties in first-seen order;
// within a genre the catalog order is kept. The final rating sort is stable
// so equal ratings keep that genre-priority order.
func (e *Engine) RecommendByGenre(user *domain.User, topN int) []domain.Movie {
	if user == nil || topN <= 0 {
		return []domain.Movie{}
	}

	counts := e.histogram(user.History)
	if len(counts) == 0 {
		counts = e.histogram(user.Watchlist)
	}
	if len(counts) == 0 {
		return []domain.Movie{}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })

	seen := make(map[string]struct{}, len(user.History)+len(user.Watchlist))
	for _, id := range user.History {
		seen[id] = struct{}{}
	}
	for _, id := range user.Watchlist {
		seen[id] = struct{}{}
	}

	all := e.catalog.All()
	candidates := make([]domain.Movie, 0)
	for _, gc := range counts {
		if !gc.key.valid {
			continue
		}
		for _, m := range all {
			if keyOf(m) != gc.key {
				continue
			}
			if _, ok := seen[m.ID]; ok {
				continue
			}
			candidates = append(candidates, m)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Rating > candidates[j].Rating })
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}
