package in_memory

import (
	"context"
	"testing"

	"chirp/storage"

	"github.com/stretchr/testify/require"
)

func TestAddAndGetPost(t *testing.T) {
	store := CreateInMemoryStorage()
	ctx := context.Background()

	post, err := store.AddPost(ctx, "alice", "😀")
	require.NoError(t, err)
	require.NotEmpty(t, post.Id)
	require.Equal(t, "alice", post.AuthorId)
	require.Equal(t, "😀", post.Content)
	require.False(t, post.CreatedAt.IsZero())

	found, err := store.GetPost(ctx, post.Id)
	require.NoError(t, err)
	require.Equal(t, post, found)
}

func TestGetPostNotFound(t *testing.T) {
	store := CreateInMemoryStorage()

	_, err := store.GetPost(context.Background(), "no-such-id")
	require.ErrorIs(t, err, storage.NotFoundError)
}

func TestListRecentNewestFirst(t *testing.T) {
	store := CreateInMemoryStorage()
	ctx := context.Background()

	for _, content := range []string{"😀", "🎉", "🌈"} {
		_, err := store.AddPost(ctx, "alice", content)
		require.NoError(t, err)
	}

	posts, err := store.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "🌈", posts[0].Content)
	require.Equal(t, "🎉", posts[1].Content)
	require.Equal(t, "😀", posts[2].Content)

	limited, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "🌈", limited[0].Content)
}

func TestListByAuthorFilters(t *testing.T) {
	store := CreateInMemoryStorage()
	ctx := context.Background()

	_, err := store.AddPost(ctx, "alice", "😀")
	require.NoError(t, err)
	_, err = store.AddPost(ctx, "bob", "🎸")
	require.NoError(t, err)
	_, err = store.AddPost(ctx, "alice", "🌈")
	require.NoError(t, err)

	posts, err := store.ListByAuthor(ctx, "alice", 100)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "🌈", posts[0].Content)
	require.Equal(t, "😀", posts[1].Content)

	none, err := store.ListByAuthor(ctx, "nobody", 100)
	require.NoError(t, err)
	require.Empty(t, none)
}
