package service

import (
	"context"
	"errors"
	"testing"

	"evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeFinder struct {
	eligible      []repository.Installer
	directory     []repository.Installer
	err           error
	eligibleCalls int
}

func (f *fakeFinder) FindEligible(_ context.Context, city, state string) ([]repository.Installer, error) {
	f.eligibleCalls++
	return f.eligible, f.err
}

func (f *fakeFinder) ListDirectory(_ context.Context, _ repository.DirectoryParams) ([]repository.Installer, error) {
	return f.directory, f.err
}

func ratingOf(v float64) *float64 { return &v }

func installer(name string, featured bool, rating *float64) repository.Installer {
	return repository.Installer{
		ID:           uuid.New(),
		BusinessName: name,
		City:         "Austin",
		State:        "TX",
		Featured:     featured,
		Rating:       rating,
	}
}

func TestRankOrdersFeaturedThenRating(t *testing.T) {
	unrated := installer("Volt Works", false, nil)
	featured := installer("Charge Right", true, ratingOf(4.2))
	topRated := installer("Amp Electric", false, ratingOf(4.9))

	ranked := Rank([]repository.Installer{unrated, featured, topRated})

	want := []string{"Charge Right", "Amp Electric", "Volt Works"}
	for i, name := range want {
		if ranked[i].BusinessName != name {
			t.Fatalf("position %d: got %q, want %q", i, ranked[i].BusinessName, name)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	input := []repository.Installer{
		installer("B", false, ratingOf(3.0)),
		installer("A", true, nil),
	}

	Rank(input)

	if input[0].BusinessName != "B" {
		t.Fatalf("input slice reordered: got %q first", input[0].BusinessName)
	}
}

func TestMatchTruncatesToLimit(t *testing.T) {
	finder := &fakeFinder{eligible: []repository.Installer{
		installer("One", true, ratingOf(5.0)),
		installer("Two", false, ratingOf(4.5)),
		installer("Three", false, ratingOf(4.0)),
		installer("Four", false, nil),
	}}
	svc := New(finder)

	matched, err := svc.Match(context.Background(), "Austin", "TX", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 3 {
		t.Fatalf("got %d installers, want 3", len(matched))
	}
	if matched[0].BusinessName != "One" {
		t.Fatalf("best candidate is %q, want One", matched[0].BusinessName)
	}
}

func TestMatchSkipsLookupWithoutLocation(t *testing.T) {
	finder := &fakeFinder{}
	svc := New(finder)

	cases := []struct{ city, state string }{
		{"", "TX"},
		{"Austin", ""},
		{"  ", "TX"},
	}
	for _, tc := range cases {
		matched, err := svc.Match(context.Background(), tc.city, tc.state, 3)
		if err != nil {
			t.Fatalf("city=%q state=%q: unexpected error: %v", tc.city, tc.state, err)
		}
		if matched != nil {
			t.Fatalf("city=%q state=%q: expected no match, got %d", tc.city, tc.state, len(matched))
		}
	}
	if finder.eligibleCalls != 0 {
		t.Fatalf("repository queried %d times, want 0", finder.eligibleCalls)
	}
}

func TestMatchEmptyResultIsNotAnError(t *testing.T) {
	svc := New(&fakeFinder{})

	matched, err := svc.Match(context.Background(), "Nowhere", "TX", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("got %d installers, want 0", len(matched))
	}
}

func TestMatchWrapsRepositoryError(t *testing.T) {
	svc := New(&fakeFinder{err: errors.New("connection refused")})

	_, err := svc.Match(context.Background(), "Austin", "TX", 3)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindPersistence {
		t.Fatalf("got kind %v, want persistence", apperr.GetKind(err))
	}
}
