package in_memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chirp/storage"
	"chirp/storage/models"

	"github.com/google/uuid"
)

type InMemoryStorage struct {
	mut   sync.RWMutex
	posts map[string]models.Post
	order []string // post ids, oldest first
}

func CreateInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		posts: make(map[string]models.Post),
	}
}

func (s *InMemoryStorage) AddPost(ctx context.Context, authorId string, content string) (*models.Post, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	post := models.Post{
		Id:        uuid.New().String(),
		AuthorId:  authorId,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.posts[post.Id] = post
	s.order = append(s.order, post.Id)
	return &post, nil
}

func (s *InMemoryStorage) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	post, found := s.posts[postId]
	if !found {
		return nil, fmt.Errorf("no post with id %s: %w", postId, storage.NotFoundError)
	}
	return &post, nil
}

func (s *InMemoryStorage) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	posts := make([]models.Post, 0)
	for i := len(s.order) - 1; i >= 0 && len(posts) < limit; i-- {
		posts = append(posts, s.posts[s.order[i]])
	}
	return posts, nil
}

func (s *InMemoryStorage) ListByAuthor(ctx context.Context, authorId string, limit int) ([]models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	posts := make([]models.Post, 0)
	for i := len(s.order) - 1; i >= 0 && len(posts) < limit; i-- {
		post := s.posts[s.order[i]]
		if post.AuthorId == authorId {
			posts = append(posts, post)
		}
	}
	return posts, nil
}
