package persistent

import (
	"context"
	"log"
	"sync"
	"time"

	"chirp/utils"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/RichardKnop/machinery/v1/tasks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	workerStorage     *MongoStorage
	workerStorageOnce sync.Once
)

// getWorkerStorage builds a broker-less mongo handle for task execution, so
// that a task never enqueues further tasks.
func getWorkerStorage() *MongoStorage {
	workerStorageOnce.Do(func() {
		workerStorage = CreateMongoStorage(
			utils.GetEnvVar("MONGO_URL"),
			utils.GetEnvVar("MONGO_DBNAME"),
		)
	})
	return workerStorage
}

// recordPostCreated maintains the denormalized per-author post counters that
// back the authorStats collection.
func recordPostCreated(postId string, authorId string) (int, error) {
	store := getWorkerStorage()
	update := bson.M{
		"$inc": bson.M{"postCount": 1},
		"$set": bson.M{
			"lastPostId": postId,
			"lastPostAt": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := store.stats.UpdateOne(context.Background(), bson.M{"_id": authorId}, update, opts)
	if err != nil {
		log.Printf("Failed to record post %s for author %s: %s", postId, authorId, err.Error())
		return 0, err
	}
	log.Printf("Recorded post %s for author %s", postId, authorId)
	return 1, nil
}

func CreateWorker(brokerUrl string) error {
	consumerTag := "machinery_worker"

	broker, err := startBroker(brokerUrl)
	if err != nil {
		return err
	}

	worker := broker.NewWorker(consumerTag, 0)

	errorhandler := func(err error) {
		log.Printf("Something went wrong: %s", err)
	}

	worker.SetErrorHandler(errorhandler)

	return worker.Launch()
}

func startBroker(brokerUrl string) (*machinery.Server, error) {
	cnf := &config.Config{
		DefaultQueue:    "machinery_tasks",
		ResultsExpireIn: 3600,
		Broker:          brokerUrl, // "redis://localhost:6379"
		ResultBackend:   brokerUrl,
		Redis: &config.RedisConfig{
			MaxIdle:                3,
			IdleTimeout:            240,
			ReadTimeout:            15,
			WriteTimeout:           15,
			ConnectTimeout:         15,
			NormalTasksPollPeriod:  1000,
			DelayedTasksPollPeriod: 500,
		},
	}
	server, err := machinery.NewServer(cnf)
	if err != nil {
		return nil, err
	}

	registered := map[string]interface{}{
		"recordPostCreated": recordPostCreated,
	}
	return server, server.RegisterTasks(registered)
}

func createRecordPostTask(postId primitive.ObjectID, authorId string) tasks.Signature {
	return tasks.Signature{
		Name: "recordPostCreated",
		Args: []tasks.Arg{
			{
				Type:  "string",
				Value: postId.Hex(),
			},
			{
				Type:  "string",
				Value: authorId,
			},
		},
	}
}
