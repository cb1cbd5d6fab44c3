package post

import (
	"context"
	"errors"
	"strings"
	"testing"

	"engagement-service/internal/apperr"
	"engagement-service/internal/notification"
	"engagement-service/internal/poll"
	"engagement-service/internal/user"
)

type fakeRepo struct {
	nextPostID    uint64
	nextCommentID uint64
	posts         map[uint64]Post
	comments      map[uint64]Comment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:    make(map[uint64]Post),
		comments: make(map[uint64]Comment),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Post) error {
	f.nextPostID++
	p.ID = f.nextPostID
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id uint64) (*Post, error) {
	if p, ok := f.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]Post, error) {
	var out []Post
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) ByIDs(_ context.Context, ids []uint64) ([]Post, error) {
	var out []Post
	for _, id := range ids {
		if p, ok := f.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, authorID string, id uint64) (bool, error) {
	p, ok := f.posts[id]
	if !ok || p.AuthorID != authorID {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c *Comment) error {
	f.nextCommentID++
	c.ID = f.nextCommentID
	f.comments[c.ID] = *c
	return nil
}

func (f *fakeRepo) GetComment(_ context.Context, id uint64) (*Comment, error) {
	if c, ok := f.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListComments(_ context.Context, postID uint64) ([]Comment, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteComment(_ context.Context, authorID string, id uint64) (bool, error) {
	c, ok := f.comments[id]
	if !ok || c.AuthorID != authorID {
		return false, nil
	}
	delete(f.comments, id)
	return true, nil
}

func (f *fakeRepo) DeleteComments(_ context.Context, postID uint64) error {
	for id, c := range f.comments {
		if c.PostID == postID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeRepo) CommentIDs(_ context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	for id, c := range f.comments {
		if c.PostID == postID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo) CommentCounts(_ context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64)
	for _, c := range f.comments {
		out[c.PostID]++
	}
	return out, nil
}

func (f *fakeRepo) PostAuthor(_ context.Context, id uint64) (string, error) {
	return f.posts[id].AuthorID, nil
}

func (f *fakeRepo) CommentAuthor(_ context.Context, id uint64) (string, uint64, error) {
	c := f.comments[id]
	return c.AuthorID, c.PostID, nil
}

type fakePolls struct {
	created    map[uint64][]string
	failCreate bool
	deleted    []uint64
}

func newFakePolls() *fakePolls {
	return &fakePolls{created: make(map[uint64][]string)}
}

func (f *fakePolls) CreateForPost(_ context.Context, postID uint64, optionTexts []string, _ int) error {
	if f.failCreate {
		return apperr.InvalidState("poll_options_invalid", "a poll needs at least two non-empty options")
	}
	f.created[postID] = optionTexts
	return nil
}

func (f *fakePolls) Vote(_ context.Context, _ string, _, _ uint64) (*poll.View, error) {
	return nil, errors.New("not used")
}

func (f *fakePolls) Results(_ context.Context, _ uint64) (*poll.Results, error) {
	return nil, errors.New("not used")
}

func (f *fakePolls) ViewsForPosts(_ context.Context, postIDs []uint64) (map[uint64]*poll.View, error) {
	out := make(map[uint64]*poll.View)
	for _, id := range postIDs {
		if _, ok := f.created[id]; ok {
			out[id] = &poll.View{PostID: id, Active: true}
		}
	}
	return out, nil
}

func (f *fakePolls) DeleteForPost(_ context.Context, postID uint64) error {
	delete(f.created, postID)
	f.deleted = append(f.deleted, postID)
	return nil
}

type fakeProfiles struct{}

func (fakeProfiles) ProfilesByIDs(_ context.Context, ids []string) ([]user.Profile, error) {
	out := make([]user.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, user.Profile{ID: id, Username: id})
	}
	return out, nil
}

type fakeEngagements struct {
	counts         map[uint64]int64
	purgedPosts    []uint64
	purgedComments []uint64
}

func (f *fakeEngagements) PostLikeCounts(_ context.Context, postIDs []uint64) (map[uint64]int64, error) {
	if f.counts == nil {
		return map[uint64]int64{}, nil
	}
	return f.counts, nil
}

func (f *fakeEngagements) PurgePost(_ context.Context, postID uint64, commentIDs []uint64) error {
	f.purgedPosts = append(f.purgedPosts, postID)
	f.purgedComments = append(f.purgedComments, commentIDs...)
	return nil
}

func (f *fakeEngagements) PurgeComments(_ context.Context, ids []uint64) error {
	f.purgedComments = append(f.purgedComments, ids...)
	return nil
}

type recorder struct {
	events []notification.Event
}

func (r *recorder) Dispatch(_ context.Context, ev notification.Event) {
	r.events = append(r.events, ev)
}

func setup() (*fakeRepo, *fakePolls, *recorder, Service) {
	repo := newFakeRepo()
	polls := newFakePolls()
	rec := &recorder{}
	return repo, polls, rec, NewService(repo, polls, fakeProfiles{}, &fakeEngagements{}, rec)
}

func TestCreateValidates(t *testing.T) {
	_, _, _, svc := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreatePostRequest{Content: "   "})
	if apperr.CodeOf(err) != "post_empty" {
		t.Fatalf("empty post: %v", err)
	}
	_, err = svc.Create(ctx, "alice", CreatePostRequest{Content: strings.Repeat("x", MaxPostLen+1)})
	if apperr.CodeOf(err) != "content_too_long" {
		t.Fatalf("oversized post: %v", err)
	}
	view, err := svc.Create(ctx, "alice", CreatePostRequest{Content: "  hello  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Content != "hello" || view.Author.ID != "alice" {
		t.Fatalf("view: %+v", view)
	}
}

func TestCreateWithPoll(t *testing.T) {
	_, polls, _, svc := setup()

	view, err := svc.Create(context.Background(), "alice", CreatePostRequest{
		Content:     "pick one",
		PollOptions: []string{"cats", "dogs"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Poll == nil || view.Poll.PostID != view.ID {
		t.Fatalf("poll missing from view: %+v", view)
	}
	if len(polls.created[view.ID]) != 2 {
		t.Fatalf("poll not created: %+v", polls.created)
	}
}

func TestCreateRollsBackOnPollFailure(t *testing.T) {
	repo, polls, _, svc := setup()
	polls.failCreate = true

	_, err := svc.Create(context.Background(), "alice", CreatePostRequest{
		Content:     "pick one",
		PollOptions: []string{"only"},
	})
	if apperr.CodeOf(err) != "poll_options_invalid" {
		t.Fatalf("want poll error, got %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("post must not survive a failed poll creation: %+v", repo.posts)
	}
}

func TestDeleteRemovesPoll(t *testing.T) {
	repo, polls, _, svc := setup()
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "x", PollOptions: []string{"a", "b"}})

	if err := svc.Delete(ctx, "bob", view.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("stranger delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", view.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatal("post should be gone")
	}
	if len(polls.deleted) != 1 || polls.deleted[0] != view.ID {
		t.Fatalf("poll cleanup: %+v", polls.deleted)
	}
}

func TestDeleteCascadesEngagementAndComments(t *testing.T) {
	repo := newFakeRepo()
	eng := &fakeEngagements{}
	svc := NewService(repo, newFakePolls(), fakeProfiles{}, eng, &recorder{})
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})
	c1, _ := svc.CreateComment(ctx, "bob", view.ID, "one")
	c2, _ := svc.CreateComment(ctx, "carol", view.ID, "two")

	if err := svc.Delete(ctx, "alice", view.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.comments) != 0 {
		t.Fatalf("comments must go with the post: %+v", repo.comments)
	}
	if len(eng.purgedPosts) != 1 || eng.purgedPosts[0] != view.ID {
		t.Fatalf("engagement purge: %+v", eng.purgedPosts)
	}
	got := map[uint64]bool{}
	for _, id := range eng.purgedComments {
		got[id] = true
	}
	if !got[c1.ID] || !got[c2.ID] {
		t.Fatalf("comment-like purge ids: %+v", eng.purgedComments)
	}
}

func TestDeleteCommentPurgesItsLikes(t *testing.T) {
	repo := newFakeRepo()
	eng := &fakeEngagements{}
	svc := NewService(repo, newFakePolls(), fakeProfiles{}, eng, &recorder{})
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})
	c, _ := svc.CreateComment(ctx, "bob", view.ID, "nice")

	if err := svc.DeleteComment(ctx, "bob", c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if len(eng.purgedComments) != 1 || eng.purgedComments[0] != c.ID {
		t.Fatalf("comment-like purge: %+v", eng.purgedComments)
	}
}

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	_, _, rec, svc := setup()
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})

	c, err := svc.CreateComment(ctx, "bob", view.ID, "  nice  ")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if c.Content != "nice" || c.Author.ID != "bob" {
		t.Fatalf("comment view: %+v", c)
	}
	if len(rec.events) != 1 {
		t.Fatalf("events: %+v", rec.events)
	}
	ev := rec.events[0]
	if ev.Kind != notification.KindCommentPosted || ev.ActorID != "bob" || ev.SubjectOwnerID != "alice" || ev.PostID != view.ID {
		t.Fatalf("event: %+v", ev)
	}
}

func TestCreateCommentValidates(t *testing.T) {
	_, _, _, svc := setup()
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})

	if _, err := svc.CreateComment(ctx, "bob", view.ID, "  "); apperr.CodeOf(err) != "comment_empty" {
		t.Fatalf("empty comment: %v", err)
	}
	long := strings.Repeat("y", MaxCommentLen+1)
	if _, err := svc.CreateComment(ctx, "bob", view.ID, long); apperr.CodeOf(err) != "content_too_long" {
		t.Fatalf("oversized comment: %v", err)
	}
	if _, err := svc.CreateComment(ctx, "bob", 999, "hi"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing post: %v", err)
	}
}

func TestDeleteCommentScopedToAuthor(t *testing.T) {
	_, _, _, svc := setup()
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})
	c, _ := svc.CreateComment(ctx, "bob", view.ID, "nice")

	if err := svc.DeleteComment(ctx, "alice", c.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("non-author delete: %v", err)
	}
	if err := svc.DeleteComment(ctx, "bob", c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	comments, err := svc.Comments(ctx, view.ID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments: %+v", comments)
	}
}

func TestGetAssemblesCounts(t *testing.T) {
	repo, _, _, svc := setup()
	ctx := context.Background()

	view, _ := svc.Create(ctx, "alice", CreatePostRequest{Content: "hello"})
	_, _ = svc.CreateComment(ctx, "bob", view.ID, "one")
	_, _ = svc.CreateComment(ctx, "carol", view.ID, "two")

	eng := &fakeEngagements{counts: map[uint64]int64{view.ID: 5}}
	svc = NewService(repo, newFakePolls(), fakeProfiles{}, eng, &recorder{})

	got, err := svc.Get(ctx, view.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 5 || got.Comments != 2 {
		t.Fatalf("counts: likes=%d comments=%d", got.Likes, got.Comments)
	}
	if _, err := svc.Get(ctx, 999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing post: %v", err)
	}
}
