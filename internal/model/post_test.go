package model

import (
	"testing"
	"time"
)

func TestPostPatchApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	excerpt := "old"
	post := Post{
		ID:        1,
		Title:     "Title",
		Excerpt:   &excerpt,
		Content:   "Body",
		Category:  "technology",
		Tags:      []string{"a"},
		AuthorID:  1,
		Status:    StatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}

	now := created.Add(time.Hour)
	PostPatch{Title: Ptr("New"), Excerpt: Ptr(""), Status: Ptr(StatusPublished)}.Apply(&post, now)

	if post.Title != "New" || post.Content != "Body" {
		t.Fatalf("unexpected merge %+v", post)
	}
	if post.Excerpt != nil {
		t.Fatalf("empty excerpt should clear the field")
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(now) {
		t.Fatalf("expected publishedAt %v, got %v", now, post.PublishedAt)
	}
	if !post.UpdatedAt.Equal(now) {
		t.Fatalf("expected updatedAt %v, got %v", now, post.UpdatedAt)
	}

	later := now.Add(time.Hour)
	PostPatch{Status: Ptr(StatusDraft)}.Apply(&post, later)
	PostPatch{Status: Ptr(StatusPublished)}.Apply(&post, later.Add(time.Hour))
	if !post.PublishedAt.Equal(now) {
		t.Fatalf("publishedAt should only be set on first publish, got %v", post.PublishedAt)
	}
}

func TestPostPatchApplyKeepsUpdatedAtAfterCreatedAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	post := Post{CreatedAt: created, UpdatedAt: created}

	PostPatch{Title: Ptr("x")}.Apply(&post, created.Add(-time.Minute))
	if post.UpdatedAt.Before(post.CreatedAt) {
		t.Fatalf("updatedAt %v should not precede createdAt %v", post.UpdatedAt, post.CreatedAt)
	}
}

func TestPostCloneIsIndependent(t *testing.T) {
	published := time.Now()
	excerpt := "e"
	post := Post{Tags: []string{"a"}, Excerpt: &excerpt, PublishedAt: &published}

	clone := post.Clone()
	clone.Tags[0] = "changed"
	*clone.Excerpt = "changed"
	*clone.PublishedAt = published.Add(time.Hour)

	if post.Tags[0] != "a" || *post.Excerpt != "e" || !post.PublishedAt.Equal(published) {
		t.Fatalf("clone shares state with original: %+v", post)
	}

	if empty := (Post{}).Clone(); empty.Tags == nil {
		t.Fatalf("nil tags should clone to an empty slice")
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(PostPatch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
	if (PostPatch{Tags: &[]string{}}).IsEmpty() {
		t.Fatalf("patch with tags should not be empty")
	}
}
