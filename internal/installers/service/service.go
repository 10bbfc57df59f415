package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/installers/transport"
	"evinstallers_backend/platform/apperr"
)

// Finder is the repository surface the service needs.
type Finder interface {
	FindEligible(ctx context.Context, city, state string) ([]repository.Installer, error)
	ListDirectory(ctx context.Context, params repository.DirectoryParams) ([]repository.Installer, error)
}

// Service implements installer matching and the public directory.
type Service struct {
	repo Finder
}

// New creates a new installers service.
func New(repo Finder) *Service {
	return &Service{repo: repo}
}

// Match returns up to limit installers serving the given city and state,
// best candidates first. An empty result is not an error; the caller decides
// what an unmatched lead means.
func (s *Service) Match(ctx context.Context, city, state string, limit int) ([]repository.Installer, error) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	if city == "" || state == "" {
		return nil, nil
	}
	if limit < 1 {
		return nil, nil
	}

	candidates, err := s.repo.FindEligible(ctx, city, state)
	if err != nil {
		return nil, apperr.Persistence("failed to query installers", err)
	}

	ranked := Rank(candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

// Directory returns the public listing for the state/city pages.
func (s *Service) Directory(ctx context.Context, req transport.DirectoryRequest) (transport.DirectoryResponse, error) {
	params := repository.DirectoryParams{
		State: strings.TrimSpace(req.State),
		City:  strings.TrimSpace(req.City),
	}

	installers, err := s.repo.ListDirectory(ctx, params)
	if err != nil {
		return transport.DirectoryResponse{}, apperr.Persistence("failed to list installers", err)
	}

	items := transport.FromInstallers(installers)
	return transport.DirectoryResponse{Installers: items, Total: len(items)}, nil
}

// Rank orders installers best-first: featured before non-featured, then
// higher rating first with unrated installers last. The sort is stable so
// the repository's ordering breaks remaining ties.
func Rank(installers []repository.Installer) []repository.Installer {
	ranked := make([]repository.Installer, len(installers))
	copy(ranked, installers)

	sort.SliceStable(ranked, func(a, b int) bool {
		left, right := ranked[a], ranked[b]
		if left.Featured != right.Featured {
			return left.Featured
		}
		switch {
		case left.Rating == nil && right.Rating == nil:
			return false
		case left.Rating == nil:
			return false
		case right.Rating == nil:
			return true
		default:
			return *left.Rating > *right.Rating
		}
	})

	return ranked
}

// Describe renders a short human-readable summary, used in outreach emails
// and agent log details.
func Describe(i repository.Installer) string {
	rating := "unrated"
	if i.Rating != nil {
		rating = fmt.Sprintf("%.1f", *i.Rating)
	}
	return fmt.Sprintf("%s (%s, %s; rating %s)", i.BusinessName, i.City, i.State, rating)
}
