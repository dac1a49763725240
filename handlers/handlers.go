package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"chirp/feed"
	"chirp/storage"
)

const INTERNAL_ERROR_MESSAGE = "Internal error."

type HTTPHandler struct {
	Feed       *feed.Service
	AuthSecret string
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJson(w http.ResponseWriter, payload interface{}) {
	rawResponse, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to dump response to json: %s", err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(rawResponse)
}

// respondError maps the service error taxonomy onto HTTP statuses. Author
// resolution failures and upstream outages deliberately surface as a generic
// internal error.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ValidationError):
		log.Printf("Validation error: %s", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, feed.TooManyRequestsError):
		log.Printf("Rate limited: %s", err.Error())
		http.Error(w, "Too many requests.", http.StatusTooManyRequests)
	case errors.Is(err, storage.NotFoundError):
		log.Printf("Not found: %s", err.Error())
		http.Error(w, "Post not found.", http.StatusNotFound)
	case errors.Is(err, storage.ClientError):
		log.Printf("Client error: %s", err.Error())
		http.Error(w, "Invalid request", http.StatusBadRequest)
	default:
		log.Printf("Internal error: %s", err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
	}
}

func parseLimit(r *http.Request) (int, bool) {
	cgiLimit, found := r.URL.Query()["limit"]
	if !found {
		return feed.DefaultLimit, true
	}
	limit, err := strconv.Atoi(cgiLimit[0])
	if err != nil || limit < 1 || limit > feed.DefaultLimit {
		return 0, false
	}
	return limit, true
}
