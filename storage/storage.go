package storage

import (
	"context"
	"errors"
	"fmt"

	"chirp/storage/models"
)

var (
	InternalError = errors.New("storage internal error")
	ClientError   = errors.New("storage client error")
	NotFoundError = fmt.Errorf("%w.not_found", ClientError)
)

type Storage interface {
	AddPost(ctx context.Context, authorId string, content string) (*models.Post, error)
	GetPost(ctx context.Context, postId string) (*models.Post, error)
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorId string, limit int) ([]models.Post, error)
}
