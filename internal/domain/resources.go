package domain

import "time"

// Post is a stored blog post.
type Post struct {
	ID        string
	Title     string
	Body      string
	Author    string
	CreatedAt time.Time
}

// Comment is a stored comment on a Post.
type Comment struct {
	ID        string
	PostID    string
	Body      string
	Author    string
	CreatedAt time.Time
}
