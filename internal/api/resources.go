package api

import (
	"strings"
	"time"

	"github.com/nemberjs/nember/internal/domain"
)

// DomainPost is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainPost domain.Post

// DomainComment is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainComment domain.Comment

// Post is a blog post. Enveloped under "post" (or "posts" for collections), with its comments
// side-loaded next to it.
type Post struct {
	ID        string    `doc:"Post ID"              json:"id"        yaml:"id"`
	Title     string    `doc:"Title of the post"    json:"title"     yaml:"title"`
	Body      string    `doc:"Content of the post"  json:"body"      yaml:"body"`
	Author    string    `doc:"Name of the author"   json:"author"    yaml:"author"`
	CreatedAt time.Time `doc:"Creation time (UTC)"  json:"createdAt" yaml:"createdAt"`

	// Comments are side-loaded, never embedded.
	Comments []Comment `json:"-" yaml:"-"`
}

// Comment is a comment on a post. Enveloped under "comment" (or "comments").
type Comment struct {
	ID        string    `doc:"Comment ID"             json:"id"        yaml:"id"`
	PostID    string    `doc:"ID of the post"         json:"postId"    yaml:"postId"`
	Body      string    `doc:"Content of the comment" json:"body"      yaml:"body"`
	Author    string    `doc:"Name of the author"     json:"author"    yaml:"author"`
	CreatedAt time.Time `doc:"Creation time (UTC)"    json:"createdAt" yaml:"createdAt"`
}

// Sideload marks posts as carrying their related comments in enveloped responses.
func (Post) Sideload() {}

// Related returns the post's comments for side-loading.
func (p Post) Related() []any {
	related := make([]any, 0, len(p.Comments))
	for _, c := range p.Comments {
		related = append(related, c)
	}
	return related
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainPost) ToAPIType() (Post, error) {
	return Post{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		Author:    d.Author,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainComment) ToAPIType() (Comment, error) {
	return Comment{
		ID:        d.ID,
		PostID:    d.PostID,
		Body:      d.Body,
		Author:    d.Author,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

// toDomain builds the stored form of an incoming post.
func (p Post) toDomain(id string, now time.Time) domain.Post {
	return domain.Post{
		ID:        id,
		Title:     strings.TrimSpace(p.Title),
		Body:      p.Body,
		Author:    strings.TrimSpace(p.Author),
		CreatedAt: now,
	}
}

// toDomain builds the stored form of an incoming comment on postID.
func (c Comment) toDomain(id string, postID string, now time.Time) domain.Comment {
	return domain.Comment{
		ID:        id,
		PostID:    postID,
		Body:      c.Body,
		Author:    strings.TrimSpace(c.Author),
		CreatedAt: now,
	}
}

func postConverter(p domain.Post) Convertible[Post] {
	return DomainPost(p)
}

func commentConverter(c domain.Comment) Convertible[Comment] {
	return DomainComment(c)
}
