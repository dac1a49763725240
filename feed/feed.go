package feed

import (
	"context"
	"errors"
	"fmt"

	"chirp/directory"
	"chirp/ratelimit"
	"chirp/storage"
	"chirp/storage/models"
)

const DefaultLimit = 100

var (
	ValidationError      = errors.New("invalid post content")
	TooManyRequestsError = errors.New("too many requests")
	AuthorNotFoundError  = errors.New("author for post not found")
)

// Service joins locally stored posts with author records from the external
// directory and guards writes with content validation and rate limiting.
// All collaborators are injected; the service itself keeps no state between
// requests.
type Service struct {
	Storage   storage.Storage
	Directory directory.Client
	Limiter   ratelimit.Limiter
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]models.PostWithAuthor, error) {
	posts, err := s.Storage.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.addAuthors(ctx, posts)
}

func (s *Service) ListByAuthor(ctx context.Context, authorId string, limit int) ([]models.PostWithAuthor, error) {
	posts, err := s.Storage.ListByAuthor(ctx, authorId, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.addAuthors(ctx, posts)
}

func (s *Service) CreatePost(ctx context.Context, callerId string, content string) (*models.Post, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	allowed, err := s.Limiter.Allow(ctx, callerId)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("caller %s exceeded the posting window: %w", callerId, TooManyRequestsError)
	}
	return s.Storage.AddPost(ctx, callerId, content)
}

func (s *Service) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	return s.Storage.GetPost(ctx, postId)
}

// addAuthors resolves the distinct author set in one directory batch call.
// Every displayed post must carry a resolvable author with a username, so a
// single missing record fails the whole listing instead of producing a
// partial result.
func (s *Service) addAuthors(ctx context.Context, posts []models.Post) ([]models.PostWithAuthor, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for _, post := range posts {
		if !seen[post.AuthorId] {
			seen[post.AuthorId] = true
			ids = append(ids, post.AuthorId)
		}
	}

	authors := make(map[string]models.Author, len(ids))
	if len(ids) > 0 {
		records, err := s.Directory.LookupUsers(ctx, ids, DefaultLimit)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			authors[record.Id] = record
		}
	}

	enriched := make([]models.PostWithAuthor, 0, len(posts))
	for _, post := range posts {
		author, found := authors[post.AuthorId]
		if !found || author.Username == "" {
			return nil, fmt.Errorf("author %s for post %s: %w", post.AuthorId, post.Id, AuthorNotFoundError)
		}
		enriched = append(enriched, models.PostWithAuthor{Post: post, Author: author})
	}
	return enriched, nil
}

func clampLimit(limit int) int {
	if limit < 1 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}
