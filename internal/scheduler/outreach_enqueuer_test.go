package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"evinstallers_backend/platform/logger"
)

type fakeOutreachClient struct {
	err      error
	enqueued chan string
}

func (f *fakeOutreachClient) EnqueueDailyOutreach(_ context.Context, requestedBy string) error {
	select {
	case f.enqueued <- requestedBy:
	default:
	}
	return f.err
}

func TestOutreachEnqueuerEnqueuesOnTick(t *testing.T) {
	client := &fakeOutreachClient{enqueued: make(chan string, 1)}
	enqueuer := NewOutreachEnqueuer(client, logger.New("test"), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go enqueuer.Run(ctx)

	select {
	case requestedBy := <-client.enqueued:
		if requestedBy != "scheduler" {
			t.Fatalf("unexpected requestedBy: %q", requestedBy)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("outreach was never enqueued")
	}
}

func TestOutreachEnqueuerSurvivesEnqueueFailure(t *testing.T) {
	client := &fakeOutreachClient{err: errors.New("redis down"), enqueued: make(chan string, 2)}
	enqueuer := NewOutreachEnqueuer(client, logger.New("test"), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go enqueuer.Run(ctx)

	// Two attempts prove the loop keeps ticking after a failure.
	for i := 0; i < 2; i++ {
		select {
		case <-client.enqueued:
		case <-time.After(2 * time.Second):
			t.Fatalf("enqueue attempt %d never happened", i+1)
		}
	}
}

func TestOutreachEnqueuerDefaultsInterval(t *testing.T) {
	enqueuer := NewOutreachEnqueuer(&fakeOutreachClient{enqueued: make(chan string, 1)}, logger.New("test"), 0)
	if enqueuer.interval != defaultOutreachInterval {
		t.Fatalf("got interval %v, want %v", enqueuer.interval, defaultOutreachInterval)
	}
}
