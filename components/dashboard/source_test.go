package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubLoader struct {
	data   map[string]string
	err    error
	entity string
	count  int
}

func (s *stubLoader) LoadCollection(_ context.Context, entity string, count int) ([]byte, error) {
	s.entity, s.count = entity, count
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.data[entity]), nil
}

func TestJSONSourceDecodesCollection(t *testing.T) {
	loader := &stubLoader{data: map[string]string{
		ViewUsers: `[{"id":"USER-1","name":"Ana","role":"Admin","status":"Active"}]`,
	}}
	users, err := JSONSource[UserProfile](loader, ViewUsers).Load(context.Background(), 10)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loader.entity != ViewUsers || loader.count != 10 {
		t.Fatalf("loader called with %s/%d", loader.entity, loader.count)
	}
	if len(users) != 1 || users[0].Role != RoleAdmin || users[0].Status != StatusActive {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestJSONSourceWrapsErrors(t *testing.T) {
	boom := errors.New("remote unavailable")
	if _, err := JSONSource[Campaign](&stubLoader{err: boom}, ViewCampaigns).Load(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	bad := &stubLoader{data: map[string]string{ViewCampaigns: `{"not":"an array"}`}}
	if _, err := JSONSource[Campaign](bad, ViewCampaigns).Load(context.Background(), 1); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestServiceUsesCollectionLoaderForTableViews(t *testing.T) {
	loader := &stubLoader{data: map[string]string{
		ViewCampaigns: `[{"id":"CAMP-9","name":"Remote","status":"Active","channel":"Email"}]`,
	}}
	sched := &manualScheduler{}
	service := NewService(Options{
		Generator: newTestGenerator(1),
		Scheduler: sched,
		Loader:    loader,
	})
	info, _ := service.OpenSession(context.Background(), ViewerContext{})
	if _, err := service.OpenSection(context.Background(), info.ID, "campaigns"); err != nil {
		t.Fatalf("OpenSection returned error: %v", err)
	}
	sched.Advance(2 * time.Second)
	snap, err := service.Snapshot(context.Background(), info.ID, ViewCampaigns)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	records := snap.Records.([]Campaign)
	if len(records) != 1 || records[0].ID != "CAMP-9" {
		t.Fatalf("expected remote campaign, got %+v", records)
	}
}
