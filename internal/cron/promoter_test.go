package cron

import (
	"context"
	"errors"
	"testing"

	instrepo "evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/notification"

	"github.com/google/uuid"
)

type fakeCandidates struct {
	installers []instrepo.Installer
	err        error
}

func (f *fakeCandidates) ListOutreachCandidates(_ context.Context) ([]instrepo.Installer, error) {
	return f.installers, f.err
}

type fakeWelcomeSender struct {
	sent []string
	fail bool
}

func (f *fakeWelcomeSender) SendInstallerWelcome(_ context.Context, installer instrepo.Installer) notification.Record {
	f.sent = append(f.sent, installer.BusinessName)
	if f.fail {
		return notification.Record{Status: notification.StatusFailed}
	}
	return notification.Record{Status: notification.StatusSent}
}

type fakeActionLogger struct {
	entries []string
}

func (f *fakeActionLogger) Log(_ context.Context, agent, actionType, status string, _ map[string]any) {
	f.entries = append(f.entries, agent+"/"+actionType+"/"+status)
}

func candidate(name string, rating *float64) instrepo.Installer {
	mail := name + "@example.com"
	return instrepo.Installer{
		ID:           uuid.New(),
		BusinessName: name,
		Email:        &mail,
		Rating:       rating,
	}
}

func rating(v float64) *float64 { return &v }

func TestPromoterSendsToPickedCandidate(t *testing.T) {
	sender := &fakeWelcomeSender{}
	p := NewPromoter(&fakeCandidates{installers: []instrepo.Installer{
		candidate("Amp Electric", rating(4.8)),
		candidate("Volt Works", nil),
	}}, sender, &fakeActionLogger{})
	p.pick = func(_ []float64) int { return 1 }

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Picked != "Volt Works" {
		t.Fatalf("picked %q, want Volt Works", result.Picked)
	}
	if !result.EmailSent {
		t.Fatal("email not reported as sent")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
}

func TestPromoterEmptyPoolIsNormal(t *testing.T) {
	sender := &fakeWelcomeSender{}
	p := NewPromoter(&fakeCandidates{}, sender, &fakeActionLogger{})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Candidates != 0 || result.Picked != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(sender.sent) != 0 {
		t.Fatal("email sent with no candidates")
	}
}

func TestPromoterListFailure(t *testing.T) {
	p := NewPromoter(&fakeCandidates{err: errors.New("down")}, &fakeWelcomeSender{}, &fakeActionLogger{})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestOutreachWeightFavorsRated(t *testing.T) {
	if w := outreachWeight(candidate("A", rating(4.5))); w != 4.5 {
		t.Fatalf("rated weight %v, want 4.5", w)
	}
	if w := outreachWeight(candidate("B", nil)); w != 1 {
		t.Fatalf("unrated weight %v, want 1", w)
	}
}

func TestWeightedPickRespectsBounds(t *testing.T) {
	weights := []float64{0.5, 3.2, 1.0}
	for i := 0; i < 1000; i++ {
		idx := weightedPick(weights)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("pick out of bounds: %d", idx)
		}
	}
}

func TestWeightedPickZeroTotal(t *testing.T) {
	if idx := weightedPick([]float64{0, 0}); idx != 0 {
		t.Fatalf("zero-total pick %d, want 0", idx)
	}
}
