package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *HTTPHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["postId"]

	post, err := h.Feed.GetPost(r.Context(), postId)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJson(w, post)
}
