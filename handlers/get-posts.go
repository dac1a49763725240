package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *HTTPHandler) HandleGetUserPosts(w http.ResponseWriter, r *http.Request) {
	authorId := mux.Vars(r)["userId"]
	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	posts, err := h.Feed.ListByAuthor(r.Context(), authorId, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJson(w, FeedResponse{Posts: posts})
}
