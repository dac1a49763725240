package handlers

import (
	"encoding/json"
	"net/http"
)

type CreatePostRequestData struct {
	Content string `json:"content"`
}

func (h *HTTPHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var data CreatePostRequestData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	callerId := h.CallerId(r)
	if callerId == "" {
		http.Error(w, "Invalid user token", http.StatusUnauthorized)
		return
	}

	post, err := h.Feed.CreatePost(r.Context(), callerId, data.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJson(w, post)
}
