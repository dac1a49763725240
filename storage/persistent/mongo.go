package persistent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chirp/storage"
	"chirp/storage/models"

	"github.com/RichardKnop/machinery/v1"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type post struct {
	Id        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorId  string             `bson:"authorId"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (p *post) toModel() models.Post {
	return models.Post{
		Id:        p.Id.Hex(),
		AuthorId:  p.AuthorId,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

type MongoStorage struct {
	posts  *mongo.Collection
	stats  *mongo.Collection
	broker *machinery.Server // nil when worker notifications are disabled
}

func CreateMongoStorage(dbUrl, dbName string) *MongoStorage {
	return CreateMongoStorageWithBroker(dbUrl, dbName, "")
}

func CreateMongoStorageWithBroker(dbUrl, dbName, brokerUrl string) *MongoStorage {
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl))
	if err != nil {
		panic(err)
	}
	db := client.Database(dbName)
	posts := db.Collection("posts")
	ensureIndexes(ctx, posts)

	var broker *machinery.Server
	if brokerUrl != "" {
		broker, err = startBroker(brokerUrl)
		if err != nil {
			panic(fmt.Errorf("failed to start broker: %w", err))
		}
	}

	return &MongoStorage{
		posts:  posts,
		stats:  db.Collection("authorStats"),
		broker: broker,
	}
}

func (s *MongoStorage) AddPost(ctx context.Context, authorId string, content string) (*models.Post, error) {
	p := post{
		AuthorId:  authorId,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	inserted, err := s.posts.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %s %w", err.Error(), storage.InternalError)
	}
	p.Id = inserted.InsertedID.(primitive.ObjectID)

	if s.broker != nil {
		task := createRecordPostTask(p.Id, authorId)
		if _, err := s.broker.SendTaskWithContext(ctx, &task); err != nil {
			// Stats are best effort, the write itself already succeeded.
			log.Printf("Failed to enqueue stats task for post %s: %s", p.Id.Hex(), err.Error())
		}
	}

	result := p.toModel()
	return &result, nil
}

func (s *MongoStorage) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	mongoId, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return nil, fmt.Errorf("malformed post id %s: %w", postId, storage.NotFoundError)
	}
	var found post
	err = s.posts.FindOne(ctx, bson.M{"_id": mongoId}).Decode(&found)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no post with id %s: %w", postId, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to find post: %s %w", err.Error(), storage.InternalError)
	}
	result := found.toModel()
	return &result, nil
}

func (s *MongoStorage) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	return s.find(ctx, bson.D{}, limit)
}

func (s *MongoStorage) ListByAuthor(ctx context.Context, authorId string, limit int) ([]models.Post, error) {
	return s.find(ctx, bson.D{{Key: "authorId", Value: authorId}}, limit)
}

func (s *MongoStorage) find(ctx context.Context, filter bson.D, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %s %w", err.Error(), storage.InternalError)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Printf("Cursor closing failed: %s", err.Error())
		}
	}()

	posts := make([]models.Post, 0)
	for cursor.Next(ctx) {
		var next post
		if err := cursor.Decode(&next); err != nil {
			return nil, fmt.Errorf("decode error: %s %w", err.Error(), storage.InternalError)
		}
		posts = append(posts, next.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %s %w", err.Error(), storage.InternalError)
	}
	return posts, nil
}
