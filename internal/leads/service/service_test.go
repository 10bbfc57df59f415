package service

import (
	"context"
	"errors"
	"testing"

	"evinstallers_backend/internal/events"
	instrepo "evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/internal/leads/transport"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/platform/apperr"
	"evinstallers_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	created        []repository.Lead
	createErr      error
	assignedID     uuid.UUID
	assignedIDs    []uuid.UUID
	assignErr      error
	assignmentCall int
}

func (f *fakeStore) Create(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	f.created = append(f.created, lead)
	return lead, nil
}

func (f *fakeStore) UpdateAssignment(_ context.Context, id uuid.UUID, installerIDs []uuid.UUID) error {
	f.assignmentCall++
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignedID = id
	f.assignedIDs = installerIDs
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeStore) GetByID(_ context.Context, _ uuid.UUID) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

type fakeMatcher struct {
	installers []instrepo.Installer
	err        error
	calls      int
}

func (f *fakeMatcher) Match(_ context.Context, _, _ string, _ int) ([]instrepo.Installer, error) {
	f.calls++
	return f.installers, f.err
}

type fakeNotifier struct {
	confirmations int
	alertLeads    []repository.Lead
	alertTargets  int
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, _ repository.Lead) notification.Record {
	f.confirmations++
	return notification.Record{Status: notification.StatusSent}
}

func (f *fakeNotifier) SendLeadAlerts(_ context.Context, lead repository.Lead, installers []instrepo.Installer) []notification.Record {
	f.alertLeads = append(f.alertLeads, lead)
	f.alertTargets += len(installers)
	return make([]notification.Record, len(installers))
}

type fakeScheduler struct {
	enqueued []uuid.UUID
	err      error
}

func (f *fakeScheduler) EnqueueFollowUp(_ context.Context, leadID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, leadID)
	return nil
}

type fakeActions struct {
	entries []string
}

func (f *fakeActions) Log(_ context.Context, _, actionType, status string, _ map[string]any) {
	f.entries = append(f.entries, actionType+":"+status)
}

type noopBus struct{}

func (noopBus) Publish(_ context.Context, _ events.Event) {}
func (noopBus) PublishSync(_ context.Context, _ events.Event) error {
	return nil
}
func (noopBus) Subscribe(_ string, _ events.Handler) {}

type pipeline struct {
	store     *fakeStore
	matcher   *fakeMatcher
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	actions   *fakeActions
	svc       *Service
}

func newPipeline() *pipeline {
	p := &pipeline{
		store:     &fakeStore{},
		matcher:   &fakeMatcher{},
		notifier:  &fakeNotifier{},
		scheduler: &fakeScheduler{},
		actions:   &fakeActions{},
	}
	p.svc = New(p.store, p.matcher, p.notifier, p.scheduler, p.actions, noopBus{}, logger.New("test"), 3)
	return p
}

func eligible(n int) []instrepo.Installer {
	out := make([]instrepo.Installer, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, instrepo.Installer{ID: uuid.New(), BusinessName: "Installer"})
	}
	return out
}

func validRequest() transport.SubmitLeadRequest {
	req := transport.SubmitLeadRequest{
		Name:    "Jamie Rivera",
		Email:   "jamie@example.com",
		ZipCode: "78701",
		City:    "Austin",
		State:   "TX",
	}
	req.Normalize()
	return req
}

func TestSubmitMatchesAndNotifies(t *testing.T) {
	p := newPipeline()
	p.matcher.installers = eligible(3)

	resp, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{IPAddress: "203.0.113.9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}

	if len(p.store.created) != 1 {
		t.Fatalf("got %d created leads, want 1", len(p.store.created))
	}
	created := p.store.created[0]
	if created.Status != repository.StatusNew || created.Source != "website" {
		t.Fatalf("unexpected lead defaults: %+v", created)
	}
	if created.IPAddress == nil || *created.IPAddress != "203.0.113.9" {
		t.Fatal("request metadata not captured")
	}

	if len(p.store.assignedIDs) != 3 {
		t.Fatalf("got %d assigned installers, want 3", len(p.store.assignedIDs))
	}
	if p.notifier.alertTargets != 3 {
		t.Fatalf("got %d alerts, want 3", p.notifier.alertTargets)
	}
	if p.notifier.confirmations != 1 {
		t.Fatalf("got %d confirmations, want 1", p.notifier.confirmations)
	}
	if len(p.scheduler.enqueued) != 1 {
		t.Fatalf("follow-up not enqueued")
	}
}

func TestSubmitAlertsCarryMatchedStatus(t *testing.T) {
	p := newPipeline()
	p.matcher.installers = eligible(2)

	if _, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.notifier.alertLeads) != 1 {
		t.Fatalf("got %d alert batches, want 1", len(p.notifier.alertLeads))
	}
	if p.notifier.alertLeads[0].Status != repository.StatusMatched {
		t.Fatalf("alert lead status %q, want matched", p.notifier.alertLeads[0].Status)
	}
}

func TestSubmitPersistFailureReturnsError(t *testing.T) {
	p := newPipeline()
	p.store.createErr = errors.New("deadlock detected")

	_, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindPersistence {
		t.Fatalf("got kind %v, want persistence", apperr.GetKind(err))
	}
	if p.matcher.calls != 0 {
		t.Fatal("matcher called after failed persist")
	}
	if p.notifier.confirmations != 0 {
		t.Fatal("confirmation sent after failed persist")
	}
}

func TestSubmitWithoutLocationSkipsMatching(t *testing.T) {
	p := newPipeline()

	req := transport.SubmitLeadRequest{Name: "Jamie", Email: "jamie@example.com", ZipCode: "78701"}
	req.Normalize()

	resp, err := p.svc.Submit(context.Background(), req, RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}
	if p.matcher.calls != 0 {
		t.Fatal("matcher called without city/state")
	}
	if p.notifier.confirmations != 1 {
		t.Fatal("confirmation not sent")
	}
}

func TestSubmitMatcherFailureIsNotFatal(t *testing.T) {
	p := newPipeline()
	p.matcher.err = errors.New("query timeout")

	resp, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}
	if p.store.assignmentCall != 0 {
		t.Fatal("assignment attempted after match failure")
	}
	if p.notifier.confirmations != 1 {
		t.Fatal("confirmation not sent")
	}
}

func TestSubmitNoInstallersIsNotAnError(t *testing.T) {
	p := newPipeline()

	resp, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}
	if p.store.assignmentCall != 0 {
		t.Fatal("assignment attempted with no matches")
	}
	if p.notifier.alertTargets != 0 {
		t.Fatal("alerts sent with no matches")
	}
}

func TestSubmitSchedulerFailureIsNotFatal(t *testing.T) {
	p := newPipeline()
	p.scheduler.err = errors.New("redis down")

	resp, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}
}

func TestSubmitWithoutSchedulerConfigured(t *testing.T) {
	p := newPipeline()
	p.svc = New(p.store, p.matcher, p.notifier, nil, p.actions, noopBus{}, logger.New("test"), 3)

	resp, err := p.svc.Submit(context.Background(), validRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("response not successful")
	}
}

func TestSubmitNormalizesPhone(t *testing.T) {
	p := newPipeline()

	req := validRequest()
	req.Phone = "(512) 555-0147"

	if _, err := p.svc.Submit(context.Background(), req, RequestMeta{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := p.store.created[0]
	if created.Phone == nil || *created.Phone != "+15125550147" {
		t.Fatalf("phone not normalized: %v", created.Phone)
	}
}
