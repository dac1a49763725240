package handlers

import (
	"net/http"

	"chirp/storage/models"
)

type FeedResponse struct {
	Posts []models.PostWithAuthor `json:"posts"`
}

func (h *HTTPHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	posts, err := h.Feed.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJson(w, FeedResponse{Posts: posts})
}
