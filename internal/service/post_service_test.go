package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/myblog/internal/db"
)

var baseTime = time.Date(2024, 10, 24, 16, 25, 0, 0, time.UTC)

func TestPostService_CreateDerivesSlugAndDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	category := seedCategory(t, gdb, "Programming")

	post, err := svc.Create(context.Background(), PostInput{
		CategoryID: category.ID,
		Title:      "  Learning Rust, Part 1 ",
		Intro:      "intro",
		Body:       "body",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if post.Title != "Learning Rust, Part 1" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}
	if post.Slug != "learning-rust-part-1" {
		t.Fatalf("expected derived slug, got %q", post.Slug)
	}
	if post.Status != db.PostStatusActive {
		t.Fatalf("expected default status active, got %q", post.Status)
	}
	if post.Category.ID != category.ID {
		t.Fatalf("expected category to be preloaded")
	}
	if post.URL() != "/programming/learning-rust-part-1/" {
		t.Fatalf("unexpected url %q", post.URL())
	}
}

func TestPostService_CreateValidatesInput(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	category := seedCategory(t, gdb, "Life")

	tests := []struct {
		name  string
		input PostInput
		want  error
	}{
		{name: "missing category", input: PostInput{Title: "x"}, want: ErrCategoryRequired},
		{name: "unknown category", input: PostInput{CategoryID: category.ID + 100, Title: "x"}, want: ErrCategoryNotFound},
		{name: "missing title", input: PostInput{CategoryID: category.ID, Title: "   "}, want: ErrTitleRequired},
		{name: "bad status", input: PostInput{CategoryID: category.ID, Title: "x", Status: "published"}, want: ErrInvalidStatus},
		{name: "unsluggable title", input: PostInput{CategoryID: category.ID, Title: "!!!"}, want: ErrSlugRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no posts persisted, got %d", count)
	}
}

func TestPostService_UpdateKeepsCreatedAt(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	first := seedCategory(t, gdb, "First")
	second := seedCategory(t, gdb, "Second")
	post := seedPost(t, gdb, first.ID, "Original", db.PostStatusDraft, baseTime)

	cover := "/uploads/cover.png"
	updated, err := svc.Update(context.Background(), post.ID, PostInput{
		CategoryID: second.ID,
		Title:      "Renamed",
		Slug:       "custom-slug",
		Intro:      "new intro",
		Body:       "new body",
		Content:    "extra",
		Status:     "ACTIVE",
		Image:      &cover,
	})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}

	if !updated.CreatedAt.Equal(baseTime) {
		t.Fatalf("expected created_at %v to be preserved, got %v", baseTime, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(baseTime) {
		t.Fatalf("expected updated_at to be refreshed, got %v", updated.UpdatedAt)
	}
	if updated.CategoryID != second.ID || updated.Category.Slug != "second" {
		t.Fatalf("expected post to move to second category, got %d", updated.CategoryID)
	}
	if updated.Slug != "custom-slug" || updated.Status != db.PostStatusActive || updated.Image != cover {
		t.Fatalf("unexpected updated fields: %+v", updated)
	}
}

func TestPostService_UpdateWithoutImageKeepsStoredImage(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Photos")
	post := seedPost(t, gdb, category.ID, "Sunset", db.PostStatusActive, baseTime)

	if err := svc.SetImage(ctx, post.ID, "/uploads/sunset.jpg"); err != nil {
		t.Fatalf("set image: %v", err)
	}

	updated, err := svc.Update(ctx, post.ID, PostInput{CategoryID: category.ID, Title: "Sunset at sea"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Image != "/uploads/sunset.jpg" {
		t.Fatalf("expected image to be kept, got %q", updated.Image)
	}

	empty := ""
	cleared, err := svc.Update(ctx, post.ID, PostInput{CategoryID: category.ID, Title: "Sunset at sea", Image: &empty})
	if err != nil {
		t.Fatalf("clear image: %v", err)
	}
	if cleared.Image != "" {
		t.Fatalf("expected image to be cleared, got %q", cleared.Image)
	}
}

func TestPostService_UpdateMissingPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	category := seedCategory(t, gdb, "Any")

	_, err := svc.Update(context.Background(), 999, PostInput{CategoryID: category.ID, Title: "x"})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_PublicListingsExcludeDrafts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Go")

	seedPost(t, gdb, category.ID, "Oldest", db.PostStatusActive, baseTime)
	seedPost(t, gdb, category.ID, "Hidden", db.PostStatusDraft, baseTime.Add(time.Hour))
	seedPost(t, gdb, category.ID, "Newest", db.PostStatusActive, baseTime.Add(2*time.Hour))

	home, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if got, want := postTitles(home), []string{"Newest", "Oldest"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("home listing = %v, want %v", got, want)
	}

	byCategory, err := svc.ListPublishedByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if got, want := postTitles(byCategory), []string{"Newest", "Oldest"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("category listing = %v, want %v", got, want)
	}

	results, err := svc.Search(ctx, "hidden")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("draft must not appear in search, got %v", postTitles(results))
	}
}

func TestPostService_ListPublishedByCategoryIsScoped(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	goCat := seedCategory(t, gdb, "Go")
	rustCat := seedCategory(t, gdb, "Rust")

	seedPost(t, gdb, goCat.ID, "Goroutines", db.PostStatusActive, baseTime)
	seedPost(t, gdb, rustCat.ID, "Borrow checker", db.PostStatusActive, baseTime)

	posts, err := svc.ListPublishedByCategory(context.Background(), rustCat.ID)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if got, want := postTitles(posts), []string{"Borrow checker"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("category listing = %v, want %v", got, want)
	}
}

func TestPostService_SearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Notes")

	byTitle, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "Learning rust", Intro: "a", Body: "b"})
	if err != nil {
		t.Fatalf("create title post: %v", err)
	}
	byIntro, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "Intro match", Intro: "Why RUST matters", Body: "b"})
	if err != nil {
		t.Fatalf("create intro post: %v", err)
	}
	byBody, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "Body match", Intro: "a", Body: "trusty tools"})
	if err != nil {
		t.Fatalf("create body post: %v", err)
	}
	if _, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "Unrelated", Intro: "go", Body: "python", Content: "rust in content only"}); err != nil {
		t.Fatalf("create unrelated post: %v", err)
	}

	results, err := svc.Search(ctx, "Rust")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	found := map[uint]bool{}
	for _, post := range results {
		found[post.ID] = true
	}
	if len(results) != 3 || !found[byTitle.ID] || !found[byIntro.ID] || !found[byBody.ID] {
		t.Fatalf("expected title/intro/body matches only, got %v", postTitles(results))
	}
}

func TestPostService_SearchEmptyQueryReturnsAllActive(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	category := seedCategory(t, gdb, "All")

	seedPost(t, gdb, category.ID, "One", db.PostStatusActive, baseTime)
	seedPost(t, gdb, category.ID, "Two", db.PostStatusActive, baseTime.Add(time.Minute))
	seedPost(t, gdb, category.ID, "Draft", db.PostStatusDraft, baseTime.Add(2*time.Minute))

	results, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got, want := postTitles(results), []string{"Two", "One"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("empty search = %v, want %v", got, want)
	}
}

func TestPostService_SearchTreatsWildcardsLiterally(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Math")

	if _, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "100% coverage", Intro: "a", Body: "b"}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := svc.Create(ctx, PostInput{CategoryID: category.ID, Title: "1000 words", Intro: "a", Body: "b"}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	results, err := svc.Search(ctx, "100%")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got, want := postTitles(results), []string{"100% coverage"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("search = %v, want %v", got, want)
	}
}

func TestPostService_GetPublishedChecksStatusAndCategory(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	goCat := seedCategory(t, gdb, "Go")
	seedCategory(t, gdb, "Rust")

	active := seedPost(t, gdb, goCat.ID, "Channels", db.PostStatusActive, baseTime)
	draft := seedPost(t, gdb, goCat.ID, "Generics", db.PostStatusDraft, baseTime)

	got, err := svc.GetPublished(ctx, "go", active.Slug)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if got.ID != active.ID {
		t.Fatalf("expected post %d, got %d", active.ID, got.ID)
	}

	cases := []struct {
		name         string
		categorySlug string
		postSlug     string
	}{
		{name: "draft", categorySlug: "go", postSlug: draft.Slug},
		{name: "wrong category", categorySlug: "rust", postSlug: active.Slug},
		{name: "missing category", categorySlug: "nope", postSlug: active.Slug},
		{name: "missing post", categorySlug: "go", postSlug: "does-not-exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.GetPublished(ctx, tc.categorySlug, tc.postSlug); !errors.Is(err, ErrPostNotFound) {
				t.Fatalf("expected ErrPostNotFound, got %v", err)
			}
		})
	}
}

func TestPostService_ListAppliesAdminFilters(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	goCat := seedCategory(t, gdb, "Go")
	rustCat := seedCategory(t, gdb, "Rust")

	seedPost(t, gdb, goCat.ID, "Go draft", db.PostStatusDraft, baseTime)
	seedPost(t, gdb, goCat.ID, "Go live", db.PostStatusActive, baseTime.Add(24*time.Hour))
	seedPost(t, gdb, rustCat.ID, "Rust live", db.PostStatusActive, baseTime.Add(48*time.Hour))

	all, err := svc.List(ctx, PostFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if got, want := postTitles(all), []string{"Rust live", "Go live", "Go draft"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("admin list = %v, want %v", got, want)
	}

	drafts, err := svc.List(ctx, PostFilter{Status: db.PostStatusDraft})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if got, want := postTitles(drafts), []string{"Go draft"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("draft filter = %v, want %v", got, want)
	}

	start := baseTime.Add(12 * time.Hour)
	end := baseTime.Add(36 * time.Hour)
	ranged, err := svc.List(ctx, PostFilter{CategoryID: goCat.ID, StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("list ranged: %v", err)
	}
	if got, want := postTitles(ranged), []string{"Go live"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ranged filter = %v, want %v", got, want)
	}

	searched, err := svc.List(ctx, PostFilter{Search: "RUST"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if got, want := postTitles(searched), []string{"Rust live"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("search filter = %v, want %v", got, want)
	}

	counts, err := svc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[db.PostStatusActive] != 2 || counts[db.PostStatusDraft] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPostService_DeleteCascadesComments(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	comments := NewCommentService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Cascade")

	keep := seedPost(t, gdb, category.ID, "Keep", db.PostStatusActive, baseTime)
	drop := seedPost(t, gdb, category.ID, "Drop", db.PostStatusActive, baseTime)

	for _, postID := range []uint{keep.ID, drop.ID, drop.ID} {
		if _, err := comments.Submit(ctx, postID, CommentInput{Name: "Ada", Email: "ada@example.com", Body: "Nice post"}); err != nil {
			t.Fatalf("submit comment: %v", err)
		}
	}

	if err := svc.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	var remaining int64
	gdb.Model(&db.Comment{}).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("expected only the kept post's comment to remain, got %d", remaining)
	}
	if err := svc.Delete(ctx, drop.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestPostService_SetImage(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	ctx := context.Background()
	category := seedCategory(t, gdb, "Photos")
	post := seedPost(t, gdb, category.ID, "Sunset", db.PostStatusActive, baseTime)

	if err := svc.SetImage(ctx, post.ID, " /static/uploads/sunset.webp "); err != nil {
		t.Fatalf("set image: %v", err)
	}
	reloaded, err := svc.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Image != "/static/uploads/sunset.webp" {
		t.Fatalf("unexpected image %q", reloaded.Image)
	}
	if !reloaded.CreatedAt.Equal(baseTime) {
		t.Fatalf("set image must not touch created_at")
	}

	if err := svc.SetImage(ctx, 404, "x"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
