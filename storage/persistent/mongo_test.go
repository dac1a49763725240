package persistent

import (
	"context"
	"os"
	"testing"

	"chirp/storage"

	"github.com/stretchr/testify/require"
)

// Needs a running mongo, e.g.
//   MONGO_TEST_URL=mongodb://localhost:27017 go test ./storage/persistent/
func createTestStorage(t *testing.T) *MongoStorage {
	mongoUrl, found := os.LookupEnv("MONGO_TEST_URL")
	if !found {
		t.Skip("MONGO_TEST_URL not set")
	}
	return CreateMongoStorage(mongoUrl, "chirp_test")
}

func TestMongoAddGetList(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	post, err := store.AddPost(ctx, "alice", "😀")
	require.NoError(t, err)
	require.NotEmpty(t, post.Id)

	found, err := store.GetPost(ctx, post.Id)
	require.NoError(t, err)
	require.Equal(t, post.Content, found.Content)
	require.Equal(t, post.AuthorId, found.AuthorId)

	second, err := store.AddPost(ctx, "alice", "🎉")
	require.NoError(t, err)

	recent, err := store.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(recent), 2)
	for i := 0; i+1 < len(recent); i++ {
		require.False(t, recent[i].CreatedAt.Before(recent[i+1].CreatedAt))
	}

	byAuthor, err := store.ListByAuthor(ctx, "alice", 100)
	require.NoError(t, err)
	for _, p := range byAuthor {
		require.Equal(t, "alice", p.AuthorId)
	}
	ids := make(map[string]bool)
	for _, p := range byAuthor {
		ids[p.Id] = true
	}
	require.True(t, ids[second.Id])
}

func TestMongoGetPostNotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetPost(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, storage.NotFoundError)

	_, err = store.GetPost(ctx, "ffffffffffffffffffffffff")
	require.ErrorIs(t, err, storage.NotFoundError)
}
