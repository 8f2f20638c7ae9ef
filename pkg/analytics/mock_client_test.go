package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

func TestMockClientServesFixturesAndFailures(t *testing.T) {
	client := NewMockClient(nil)
	client.SetFixture("users", []dashboard.UserProfile{{ID: "USR-1", Name: "Ada"}})

	source := dashboard.JSONSource[dashboard.UserProfile](Loader(client), "users")
	users, err := source.Load(context.Background(), 10)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ada" {
		t.Fatalf("unexpected users %#v", users)
	}

	boom := errors.New("timeout")
	client.Fail("users", boom)
	if _, err := source.Load(context.Background(), 10); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if client.Calls("users") != 2 {
		t.Fatalf("expected 2 calls, got %d", client.Calls("users"))
	}
}

func TestMockClientFallsBackToGenerator(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	client := NewMockClient(dashboard.NewSeededGenerator(7, func() time.Time { return now }))

	source := dashboard.JSONSource[dashboard.ScheduledJob](Loader(client), dashboard.ViewJobs)
	jobs, err := source.Load(context.Background(), 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(jobs))
	}
	if _, err := client.FetchCollection(context.Background(), "nope", 1); !errors.Is(err, dashboard.ErrUnknownEntity) {
		t.Fatalf("expected unknown entity, got %v", err)
	}
}
