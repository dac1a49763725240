package persistent_cached

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chirp/storage"
	"chirp/storage/models"

	"github.com/go-redis/redis/v8"
)

const cacheTtl = time.Hour

func cacheKey(postId string) string {
	return "post:" + postId
}

func saveToCache(ctx context.Context, client *redis.Client, post *models.Post) {
	j, err := json.Marshal(post)
	if err != nil {
		return
	}
	if err := client.Set(ctx, cacheKey(post.Id), j, cacheTtl).Err(); err != nil {
		log.Printf("Failed to save post %s to redis: %s", post.Id, err.Error())
	}
}

func getFromCache(ctx context.Context, client *redis.Client, postId string) (*models.Post, error) {
	val, err := client.Get(ctx, cacheKey(postId)).Result()
	if err != nil {
		return nil, err
	}
	var post models.Post
	if err := json.Unmarshal([]byte(val), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func CreatePersistentStorageCachedWithRedis(persistentStorage storage.Storage, redisUrl string) storage.Storage {
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisUrl,
	})
	return &PersistentStorageWithCache{
		client:            redisClient,
		persistentStorage: persistentStorage,
	}
}

// PersistentStorageWithCache keeps single posts in redis in front of the
// persistent store. Listings always hit the store: posts are immutable, but
// the set of recent posts is not.
type PersistentStorageWithCache struct {
	client            *redis.Client
	persistentStorage storage.Storage
}

func (s *PersistentStorageWithCache) AddPost(ctx context.Context, authorId string, content string) (*models.Post, error) {
	post, err := s.persistentStorage.AddPost(ctx, authorId, content)
	if err == nil {
		saveToCache(ctx, s.client, post)
	}
	return post, err
}

func (s *PersistentStorageWithCache) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	if post, err := getFromCache(ctx, s.client, postId); err == nil {
		return post, nil
	}
	post, err := s.persistentStorage.GetPost(ctx, postId)
	if err == nil {
		saveToCache(ctx, s.client, post)
	}
	return post, err
}

func (s *PersistentStorageWithCache) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	return s.persistentStorage.ListRecent(ctx, limit)
}

func (s *PersistentStorageWithCache) ListByAuthor(ctx context.Context, authorId string, limit int) ([]models.Post, error) {
	return s.persistentStorage.ListByAuthor(ctx, authorId, limit)
}
