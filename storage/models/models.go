package models

import "time"

type Post struct {
	Id        string    `json:"id"`
	AuthorId  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the public slice of an identity-provider profile. It is never
// persisted here; it lives only for the duration of a listing response.
type Author struct {
	Id              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageUrl string `json:"profileImageUrl"`
}

type PostWithAuthor struct {
	Post   Post   `json:"post"`
	Author Author `json:"author"`
}
