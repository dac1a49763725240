package main

import (
	"log"
	"net/http"
	"time"

	"chirp/directory"
	"chirp/feed"
	"chirp/handlers"
	"chirp/ratelimit"
	"chirp/storage"
	"chirp/storage/in_memory"
	"chirp/storage/persistent"
	"chirp/storage/persistent_cached"
	"chirp/utils"

	"github.com/gorilla/mux"
)

type StorageMode string

const (
	InMemory       StorageMode = "inmemory"
	Mongo          StorageMode = "mongo"
	MongoWithCache StorageMode = "cached"
)

type LimiterMode string

const (
	InMemoryLimiter LimiterMode = "inmemory"
	RedisLimiter    LimiterMode = "redis"
)

type AppMode string

const (
	ServerMode AppMode = "server"
	WorkerMode AppMode = "worker"
)

const (
	DefaultRateLimit         = 3
	DefaultRateWindowSeconds = 60
)

func createStorage() storage.Storage {
	storageMode := StorageMode(utils.GetEnvVarWithDefault("STORAGE_MODE", string(InMemory)))
	switch storageMode {
	case InMemory:
		return in_memory.CreateInMemoryStorage()
	case Mongo:
		return persistent.CreateMongoStorageWithBroker(
			utils.GetEnvVar("MONGO_URL"),
			utils.GetEnvVar("MONGO_DBNAME"),
			utils.GetEnvVarWithDefault("BROKER_URL", ""),
		)
	case MongoWithCache:
		persistentStorage := persistent.CreateMongoStorageWithBroker(
			utils.GetEnvVar("MONGO_URL"),
			utils.GetEnvVar("MONGO_DBNAME"),
			utils.GetEnvVarWithDefault("BROKER_URL", ""),
		)
		return persistent_cached.CreatePersistentStorageCachedWithRedis(
			persistentStorage,
			utils.GetEnvVar("REDIS_URL"),
		)
	default:
		panic("Invalid 'STORAGE_MODE'")
	}
}

func createLimiter() ratelimit.Limiter {
	limit := utils.GetEnvVarIntWithDefault("RATE_LIMIT", DefaultRateLimit)
	window := time.Duration(utils.GetEnvVarIntWithDefault("RATE_WINDOW_SECONDS", DefaultRateWindowSeconds)) * time.Second

	limiterMode := LimiterMode(utils.GetEnvVarWithDefault("LIMITER_MODE", string(InMemoryLimiter)))
	switch limiterMode {
	case InMemoryLimiter:
		return ratelimit.CreateInMemoryLimiter(limit, window)
	case RedisLimiter:
		return ratelimit.CreateRedisLimiter(utils.GetEnvVar("REDIS_URL"), limit, window)
	default:
		panic("Invalid 'LIMITER_MODE'")
	}
}

func CreateServer() *http.Server {
	r := mux.NewRouter()

	port := utils.GetEnvVarWithDefault("SERVER_PORT", "8080")

	feedService := &feed.Service{
		Storage:   createStorage(),
		Directory: directory.CreateHTTPClient(utils.GetEnvVar("DIRECTORY_URL")),
		Limiter:   createLimiter(),
	}
	handler := &handlers.HTTPHandler{
		Feed:       feedService,
		AuthSecret: utils.GetEnvVarWithDefault("AUTH_SECRET", ""),
	}

	r.HandleFunc("/maintenance/ping", handler.HealthCheck).Methods("GET")
	r.HandleFunc("/api/v1/feed", handler.HandleFeed).Methods("GET")
	r.HandleFunc("/api/v1/posts", handler.HandleCreatePost).Methods("POST")
	r.HandleFunc("/api/v1/posts/{postId}", handler.HandleGetPost).Methods("GET")
	r.HandleFunc("/api/v1/users/{userId}/posts", handler.HandleGetUserPosts).Methods("GET")

	return &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}

func main() {
	appMode := AppMode(utils.GetEnvVarWithDefault("APP_MODE", string(ServerMode)))
	switch appMode {
	case ServerMode:
		srv := CreateServer()
		log.Printf("Start serving on %s", srv.Addr)
		log.Fatal(srv.ListenAndServe())
	case WorkerMode:
		log.Fatal(persistent.CreateWorker(utils.GetEnvVar("BROKER_URL")))
	default:
		panic("Invalid 'APP_MODE'")
	}
}
