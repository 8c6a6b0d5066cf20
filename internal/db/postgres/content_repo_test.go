package postgres

import (
	"context"
	"fmt"
	"testing"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/listing"
	"Yatube/internal/core/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPostRepo_CreateReadUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "leo")
	other := createTestUser(t, db, "anna")
	group, err := NewGroupRepository(db).Create(ctx, &groups.Group{Slug: "cats", Title: "Cats"})
	require.NoError(t, err)

	repo := NewPostRepository(db)
	post := &posts.Post{AuthorID: author.ID, Text: "Hello", GroupID: &group.ID}
	require.NoError(t, repo.Create(ctx, post))
	require.NotZero(t, post.ID)

	view, err := repo.GetView(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", view.Text)
	assert.Equal(t, "leo", view.Author.Username)
	require.NotNil(t, view.Group)
	assert.Equal(t, "cats", view.Group.Slug)

	t.Run("author edit keeps timestamp", func(t *testing.T) {
		edited := *post
		edited.Text = "Edited"
		edited.GroupID = nil
		require.NoError(t, repo.Update(ctx, &edited))

		stored, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", stored.Text)
		assert.Nil(t, stored.GroupID)
		assert.Equal(t, author.ID, stored.AuthorID)
		assert.True(t, post.CreatedAt.Equal(stored.CreatedAt))
	})

	t.Run("non-author update matches no row", func(t *testing.T) {
		hijack := *post
		hijack.AuthorID = other.ID
		hijack.Text = "hijacked"
		assert.ErrorIs(t, repo.Update(ctx, &hijack), posts.ErrNotFound)

		stored, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", stored.Text)
	})

	t.Run("unknown group", func(t *testing.T) {
		err := repo.Create(ctx, &posts.Post{AuthorID: author.ID, Text: "x", GroupID: ptr(int64(424242))})
		assert.ErrorIs(t, err, groups.ErrGroupNotFound)
	})

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestPostRepo_Comments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "leo")
	repo := NewPostRepository(db)

	post := &posts.Post{AuthorID: author.ID, Text: "Hello"}
	require.NoError(t, repo.Create(ctx, post))

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.CreateComment(ctx, &posts.Comment{PostID: post.ID, AuthorID: author.ID, Text: fmt.Sprintf("c%d", i)}))
	}

	comments, err := repo.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "c1", comments[0].Text)
	assert.Equal(t, "leo", comments[0].Author.Username)

	view, err := repo.GetView(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.CommentCount)

	err = repo.CreateComment(ctx, &posts.Comment{PostID: 999999, AuthorID: author.ID, Text: "orphan"})
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestGroupRepo_DeleteDetachesPosts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "leo")
	groupRepo := NewGroupRepository(db)
	postRepo := NewPostRepository(db)

	group, err := groupRepo.Create(ctx, &groups.Group{Slug: "cats", Title: "Cats"})
	require.NoError(t, err)
	_, err = groupRepo.Create(ctx, &groups.Group{Slug: "cats", Title: "Again"})
	assert.ErrorIs(t, err, groups.ErrSlugTaken)

	post := &posts.Post{AuthorID: author.ID, Text: "in a group", GroupID: &group.ID}
	require.NoError(t, postRepo.Create(ctx, post))

	detached, err := groupRepo.Delete(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, int64(1), detached)

	stored, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err, "post survives its group")
	assert.Nil(t, stored.GroupID)

	_, err = groupRepo.Delete(ctx, "cats")
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)
}

func TestFollowRepo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	leo := createTestUser(t, db, "leo")
	anna := createTestUser(t, db, "anna")
	repo := NewFollowRepository(db)

	created, err := repo.Create(ctx, anna.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, anna.ID, leo.ID)
	require.NoError(t, err)
	assert.False(t, created, "second follow is a no-op")

	created, err = repo.Create(ctx, leo.ID, leo.ID)
	require.NoError(t, err)
	assert.False(t, created, "self follow is rejected by the check constraint")

	exists, err := repo.Exists(ctx, anna.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := repo.Delete(ctx, anna.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, anna.ID, leo.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListingRepo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	leo := createTestUser(t, db, "leo")
	anna := createTestUser(t, db, "anna")
	ivan := createTestUser(t, db, "ivan")
	group, err := NewGroupRepository(db).Create(ctx, &groups.Group{Slug: "cats", Title: "Cats"})
	require.NoError(t, err)

	postRepo := NewPostRepository(db)
	for i := 0; i < 16; i++ {
		p := &posts.Post{AuthorID: leo.ID, Text: fmt.Sprintf("leo %d", i)}
		if i%2 == 0 {
			p.GroupID = &group.ID
		}
		require.NoError(t, postRepo.Create(ctx, p))
	}
	require.NoError(t, postRepo.Create(ctx, &posts.Post{AuthorID: anna.ID, Text: "anna"}))

	_, err = NewFollowRepository(db).Create(ctx, ivan.ID, leo.ID)
	require.NoError(t, err)

	repo := NewListingRepository(db)
	tests := []struct {
		name   string
		filter listing.Filter
		want   int
	}{
		{"all", listing.Filter{}, 17},
		{"group", listing.Filter{GroupID: group.ID}, 8},
		{"author", listing.Filter{AuthorID: anna.ID}, 1},
		{"feed", listing.Filter{FollowerID: ivan.ID}, 16},
		{"empty feed", listing.Filter{FollowerID: anna.ID}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := repo.CountPosts(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}

	page, err := repo.ListPosts(ctx, listing.Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, "anna", page[0].Text, "newest first")
	for i := 1; i < len(page); i++ {
		assert.False(t, page[i].CreatedAt.After(page[i-1].CreatedAt))
	}

	rest, err := repo.ListPosts(ctx, listing.Filter{FollowerID: ivan.ID}, 10, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 6)
}
