package story

import (
	"context"
	"testing"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/user"
)

type fakeRepo struct {
	nextID  uint64
	stories map[uint64]Story
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stories: make(map[uint64]Story)}
}

func (f *fakeRepo) Create(_ context.Context, s *Story) error {
	f.nextID++
	s.ID = f.nextID
	f.stories[s.ID] = *s
	return nil
}

func (f *fakeRepo) ListSince(_ context.Context, cutoff time.Time) ([]Story, error) {
	var out []Story
	for _, s := range f.stories {
		if s.CreatedAt.After(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, userID string, id uint64) (bool, error) {
	s, ok := f.stories[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(f.stories, id)
	return true, nil
}

func (f *fakeRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, s := range f.stories {
		if !s.CreatedAt.After(cutoff) {
			delete(f.stories, id)
			n++
		}
	}
	return n, nil
}

type fakeProfiles struct{}

func (fakeProfiles) ProfilesByIDs(_ context.Context, ids []string) ([]user.Profile, error) {
	out := make([]user.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, user.Profile{ID: id, Username: id})
	}
	return out, nil
}

func newTestService(repo *fakeRepo) *service {
	return &service{repo: repo, profiles: fakeProfiles{}, ttl: 24 * time.Hour, now: time.Now}
}

func TestCreateRequiresImage(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.Create(context.Background(), "alice", ""); apperr.CodeOf(err) != "story_empty" {
		t.Fatalf("want story_empty, got %v", err)
	}
	st, err := svc.Create(context.Background(), "alice", "https://cdn/img.jpg")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.ID == 0 || st.CreatedAt.IsZero() {
		t.Fatalf("story: %+v", st)
	}
}

func TestListActiveFiltersExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	fresh, _ := svc.Create(ctx, "alice", "https://cdn/a.jpg")
	stale, _ := svc.Create(ctx, "bob", "https://cdn/b.jpg")

	// stale rows are filtered at read time even before the sweep runs
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("everything expired: %+v", active)
	}
	if len(repo.stories) != 2 {
		t.Fatal("listing must not delete rows")
	}

	svc.now = time.Now
	active, _ = svc.ListActive(ctx)
	if len(active) != 2 {
		t.Fatalf("active: %+v", active)
	}
	_ = fresh
	_ = stale
}

func TestSweepDeletesExpiredOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	old := &Story{UserID: "alice", ImageURL: "https://cdn/old.jpg", CreatedAt: time.Now().Add(-30 * time.Hour)}
	_ = repo.Create(ctx, old)
	fresh, _ := svc.Create(ctx, "bob", "https://cdn/new.jpg")

	n, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept %d rows", n)
	}
	if _, ok := repo.stories[fresh.ID]; !ok {
		t.Fatal("fresh story must survive the sweep")
	}
	if _, ok := repo.stories[old.ID]; ok {
		t.Fatal("stale story must be gone")
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	st, _ := svc.Create(ctx, "alice", "https://cdn/a.jpg")

	if err := svc.Delete(ctx, "bob", st.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("stranger delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", st.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("double delete: %v", err)
	}
}
