package domain

import (
	"reflect"
	"testing"
)

func TestUserAddToWatchlistIdempotent(t *testing.T) {
	u := NewUser("alice", "pw")
	u.AddToWatchlist("M001")
	u.AddToWatchlist("M001")
	u.AddToWatchlist("M002")

	if want := []string{"M001", "M002"}; !reflect.DeepEqual(u.Watchlist, want) {
		t.Fatalf("Watchlist = %v, want %v", u.Watchlist, want)
	}
}

func TestUserMarkAsWatched(t *testing.T) {
	u := NewUser("alice", "pw")
	u.AddToWatchlist("M001")
	u.AddToWatchlist("M002")

	u.MarkAsWatched("M001")
	u.MarkAsWatched("M001")

	if want := []string{"M001"}; !reflect.DeepEqual(u.History, want) {
		t.Fatalf("History = %v, want %v", u.History, want)
	}
	if u.InWatchlist("M001") {
		t.Fatalf("M001 should have left the watchlist")
	}
	if want := []string{"M002"}; !reflect.DeepEqual(u.Watchlist, want) {
		t.Fatalf("Watchlist = %v, want %v", u.Watchlist, want)
	}
}

func TestUserRemoveFromWatchlist(t *testing.T) {
	u := NewUser("alice", "pw")
	u.AddToWatchlist("M001")
	u.AddToWatchlist("M002")
	u.AddToWatchlist("M003")

	u.RemoveFromWatchlist("M404")
	u.RemoveFromWatchlist("M002")

	if want := []string{"M001", "M003"}; !reflect.DeepEqual(u.Watchlist, want) {
		t.Fatalf("Watchlist = %v, want %v", u.Watchlist, want)
	}
}

func TestCatalogKeepsInsertionOrder(t *testing.T) {
	c := NewCatalog()
	c.Put(Movie{ID: "M003", Title: "C"})
	c.Put(Movie{ID: "M001", Title: "A"})
	c.Put(Movie{ID: "M003", Title: "C2"})

	all := c.All()
	if len(all) != 2 || c.Len() != 2 {
		t.Fatalf("expected 2 movies, got %d", len(all))
	}
	if all[0].ID != "M003" || all[0].Title != "C2" {
		t.Fatalf("duplicate id should replace in place, got %+v", all[0])
	}
	sorted := c.SortedByID()
	if sorted[0].ID != "M001" || sorted[1].ID != "M003" {
		t.Fatalf("SortedByID = %+v", sorted)
	}
}

func TestMovieString(t *testing.T) {
	genre := "Action"
	m := Movie{ID: "M001", Title: "Heat", Genre: &genre, Year: 1995, Rating: 8.3}
	if got, want := m.String(), "M001 | Heat (1995) - Action - 8.3"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	m.Genre = nil
	if got, want := m.String(), "M001 | Heat (1995) - null - 8.3"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestMovieStringRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{8.0, "8.0"},
		{0, "0.0"},
		{7.25, "7.25"},
		{10, "10.0"},
	}
	for _, tt := range tests {
		m := Movie{ID: "M001", Title: "Heat", Year: 1995, Rating: tt.rating}
		if got, want := m.String(), "M001 | Heat (1995) - null - "+tt.want; got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
