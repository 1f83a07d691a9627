package recommend

import (
	"fmt"
	"testing"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
)

func movie(id, genre string, year int, rating float64) domain.Movie {
	m := domain.Movie{ID: id, Title: "Title " + id, Year: year, Rating: rating}
	if genre != "" {
		m.Genre = &genre
	}
	return m
}

func catalogOf(movies ...domain.Movie) *domain.Catalog {
	c := domain.NewCatalog()
	for _, m := range movies {
		c.Put(m)
	}
	return c
}

func ids(movies []domain.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func user(history, watchlist []string) *domain.User {
	u := domain.NewUser("alice", "pw")
	u.History = append(u.History, history...)
	u.Watchlist = append(u.Watchlist, watchlist...)
	return u
}

func TestRecommendByGenre(t *testing.T) {
	catalog := catalogOf(
		movie("M001", "Action", 2020, 8.0),
		movie("M002", "Action", 2019, 9.0),
		movie("M003", "Comedy", 2021, 7.0),
	)
	engine := New(catalog)

	tests := []struct {
		name string
		user *domain.User
		topN int
		want []string
	}{
		{"history genre only", user([]string{"M001"}, nil), 5, []string{"M002"}},
		{"watchlist fallback", user(nil, []string{"M003"}), 5, []string{}},
		{"watchlist fallback action", user(nil, []string{"M002"}), 5, []string{"M001"}},
		{"unknown ids only", user([]string{"M404"}, []string{"M405"}), 5, []string{}},
		{"empty state", user(nil, nil), 5, []string{}},
		{"zero top n", user([]string{"M001"}, nil), 0, []string{}},
		{"negative top n", user([]string{"M001"}, nil), -3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(engine.RecommendByGenre(tt.user, tt.topN))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("RecommendByGenre() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendByGenreRankingAndTieBreak(t *testing.T) {
	catalog := catalogOf(
		movie("H1", "Horror", 2000, 6.0),
		movie("H2", "Horror", 2001, 7.5),
		movie("D1", "Drama", 2002, 7.5),
		movie("D2", "drama", 2003, 9.1),
		movie("C1", "Comedy", 2004, 7.5),
		movie("C2", "Comedy", 2005, 5.0),
		movie("S1", "SciFi", 2006, 9.9),
		movie("N1", "", 2007, 9.5),
	)
	engine := New(catalog)

	// drama:2 (mixed case), comedy:1, horror:1; the unknown id is ignored
	u := user([]string{"D1", "C1", "missing", "H1", "D2"}, nil)
	got := engine.RecommendByGenre(u, 10)

	// drama yields nothing (both seen), then comedy [C2], then horror [H2]
	want := []string{"H2", "C2"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("RecommendByGenre() = %v, want %v", ids(got), want)
	}

	// equal ratings keep genre priority: comedy before horror
	u2 := user([]string{"C2", "H1"}, nil)
	got = engine.RecommendByGenre(u2, 10)
	want = []string{"C1", "H2"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("tie-break: RecommendByGenre() = %v, want %v", ids(got), want)
	}

	// a genre-less history entry blocks the watchlist fallback and matches nothing
	u3 := user([]string{"N1"}, []string{"S1"})
	if got := engine.RecommendByGenre(u3, 10); len(got) != 0 {
		t.Fatalf("null genre: RecommendByGenre() = %v, want empty", ids(got))
	}
}

func TestRecommendByGenreProperties(t *testing.T) {
	var movies []domain.Movie
	genres := []string{"Action", "Comedy", "Drama"}
	for i := 0; i < 30; i++ {
		movies = append(movies, movie(fmt.Sprintf("M%03d", i), genres[i%3], 2000+i, float64((i*7)%10)))
	}
	engine := New(catalogOf(movies...))
	u := user([]string{"M000", "M003", "M004"}, []string{"M006", "M010"})

	for _, topN := range []int{1, 3, 5, 100} {
		got := engine.RecommendByGenre(u, topN)
		if len(got) > topN {
			t.Fatalf("topN=%d returned %d movies", topN, len(got))
		}
		for i, m := range got {
			if u.HasWatched(m.ID) || u.InWatchlist(m.ID) {
				t.Fatalf("returned seen movie %s", m.ID)
			}
			if i > 0 && got[i-1].Rating < m.Rating {
				t.Fatalf("ratings not non-increasing at %d: %v", i, ids(got))
			}
		}
	}

	// action:2, comedy:1; drama never qualifies. 10+10 movies minus 5 seen.
	if got := engine.RecommendByGenre(u, 100); len(got) != 15 {
		t.Fatalf("expected all 15 unseen candidates, got %d", len(got))
	}
}

func BenchmarkRecommendByGenre(b *testing.B) {
	var movies []domain.Movie
	genres := []string{"Action", "Comedy", "Drama", "Horror", "SciFi"}
	for i := 0; i < 5000; i++ {
		movies = append(movies, movie(fmt.Sprintf("M%05d", i), genres[i%len(genres)], 1950+i%70, float64(i%100)/10))
	}
	engine := New(catalogOf(movies...))
	u := user([]string{"M00001", "M00002", "M00007", "M00011"}, []string{"M00100"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.RecommendByGenre(u, 10)
	}
}
