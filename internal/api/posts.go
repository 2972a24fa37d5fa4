package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/errors"
	"github.com/nemberjs/nember/internal/filter"
)

// ListPostsRequest represents the incoming request for a filtered list of posts.
type ListPostsRequest struct {
	Author    string `doc:"Only list posts by this author (case-insensitive)"                  example:"ada"      query:"author"`
	Title     string `doc:"Only list posts whose title contains this value (case-insensitive)" example:"envelope" query:"title"`
	Commenter string `doc:"Only list posts commented on by any of these comma-separated authors" example:"bob,eve" query:"commenter"`
}

// filters returns the request's query filters keyed by matcher name.
func (r *ListPostsRequest) filters() map[string]string {
	return map[string]string{
		filterAuthor:    r.Author,
		filterTitle:     r.Title,
		filterCommenter: r.Commenter,
	}
}

const (
	filterAuthor    = "author"
	filterTitle     = "title"
	filterCommenter = "commenter"
)

// postMatchers are the query filters supported when listing posts.
var postMatchers = filter.WithMatchers(map[string]filter.Predicate[Post]{
	filterAuthor: filter.Equals(func(p Post) string { return p.Author }),
	filterTitle:  filter.Partial(func(p Post) string { return p.Title }),
	filterCommenter: filter.HasAny(func(p Post) []string {
		authors := make([]string, 0, len(p.Comments))
		for _, c := range p.Comments {
			authors = append(authors, c.Author)
		}
		return authors
	}),
})

// PostsResponse represents the wrapped API response for a list of posts.
type PostsResponse struct {
	Body []Post
}

// PostResponse represents the wrapped API response for a single post.
type PostResponse struct {
	Body Post
}

// PostRequest represents the incoming request for a single post.
type PostRequest struct {
	ID string `doc:"ID of the post" path:"id"`
}

// CreatePostRequest represents the incoming request to create a post, enveloped under "post".
type CreatePostRequest struct {
	Body Post
}

// PostTitleResponse represents the API response for the title of a post, which is not enveloped.
type PostTitleResponse struct {
	Body string
}

// PostCountResponse represents the API response for the number of posts, which is not enveloped.
type PostCountResponse struct {
	Body int
}

// CommentsResponse represents the wrapped API response for a list of comments.
type CommentsResponse struct {
	Body []Comment
}

// CommentResponse represents the wrapped API response for a single comment.
type CommentResponse struct {
	Body Comment
}

// CreateCommentRequest represents the incoming request to comment on a post, enveloped under "comment".
type CreateCommentRequest struct {
	ID   string `doc:"ID of the post" path:"id"`
	Body Comment
}

// postHandlers serves the post and comment routes.
type postHandlers struct {
	posts    contracts.Repository[domain.Post]
	comments contracts.Repository[domain.Comment]
	now      func() time.Time
}

// RegisterPostRoutes sets up post and comment API endpoint routes.
func RegisterPostRoutes(
	routerAPI huma.API,
	ops *Operations,
	posts contracts.Repository[domain.Post],
	comments contracts.Repository[domain.Comment],
	apiPathPrefix string,
) {
	postsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Posts"}
	h := &postHandlers{posts: posts, comments: comments, now: time.Now}

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID: "listPosts",
			Method:      http.MethodGet,
			Summary:     "List posts with their comments side-loaded",
			Tags:        tags,
		},
		func(ctx context.Context, input *ListPostsRequest) (*PostsResponse, error) {
			return h.handleListPosts(input.filters())
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID:   "createPost",
			Method:        http.MethodPost,
			Summary:       "Create a post",
			Tags:          tags,
			DefaultStatus: http.StatusCreated,
		},
		func(ctx context.Context, input *CreatePostRequest) (*PostResponse, error) {
			return h.handleCreatePost(input.Body)
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID: "countPosts",
			Method:      http.MethodGet,
			Path:        "/count",
			Summary:     "Count posts",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*PostCountResponse, error) {
			return &PostCountResponse{Body: h.posts.Len()}, nil
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID: "getPost",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get a post with its comments side-loaded",
			Tags:        tags,
		},
		func(ctx context.Context, input *PostRequest) (*PostResponse, error) {
			return h.handleGetPost(input.ID)
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID:   "deletePost",
			Method:        http.MethodDelete,
			Path:          "/{id}",
			Summary:       "Delete a post and its comments",
			Tags:          tags,
			DefaultStatus: http.StatusNoContent,
		},
		func(ctx context.Context, input *PostRequest) (*struct{}, error) {
			return nil, h.handleDeletePost(input.ID)
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID: "getPostTitle",
			Method:      http.MethodGet,
			Path:        "/{id}/title",
			Summary:     "Get the title of a post",
			Tags:        tags,
		},
		func(ctx context.Context, input *PostRequest) (*PostTitleResponse, error) {
			post, err := h.posts.Get(input.ID)
			if err != nil {
				return nil, err
			}
			return &PostTitleResponse{Body: post.Title}, nil
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID: "listComments",
			Method:      http.MethodGet,
			Path:        "/{id}/comments",
			Summary:     "List the comments of a post",
			Tags:        append(tags, "Comments"),
		},
		func(ctx context.Context, input *PostRequest) (*CommentsResponse, error) {
			return h.handleListComments(input.ID)
		},
	)

	Register(
		postsAPI,
		ops,
		huma.Operation{
			OperationID:   "createComment",
			Method:        http.MethodPost,
			Path:          "/{id}/comments",
			Summary:       "Comment on a post",
			Tags:          append(tags, "Comments"),
			DefaultStatus: http.StatusCreated,
		},
		func(ctx context.Context, input *CreateCommentRequest) (*CommentResponse, error) {
			return h.handleCreateComment(input.ID, input.Body)
		},
	)
}

// handleListPosts returns the posts matching filters with their comments attached for side-loading.
func (h *postHandlers) handleListPosts(filters map[string]string) (*PostsResponse, error) {
	posts, err := convertAll(h.posts.List(), postConverter)
	if err != nil {
		return nil, err
	}

	matched := make([]Post, 0, len(posts))
	for _, post := range posts {
		if post.Comments, err = h.commentsOf(post.ID); err != nil {
			return nil, err
		}

		ok, err := filter.Match(post, filters, postMatchers)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, post)
		}
	}

	return &PostsResponse{Body: matched}, nil
}

// handleGetPost returns a single post with its comments attached for side-loading.
func (h *postHandlers) handleGetPost(id string) (*PostResponse, error) {
	stored, err := h.posts.Get(id)
	if err != nil {
		return nil, err
	}

	post, err := DomainPost(stored).ToAPIType()
	if err != nil {
		return nil, err
	}
	if post.Comments, err = h.commentsOf(id); err != nil {
		return nil, err
	}

	return &PostResponse{Body: post}, nil
}

// handleCreatePost stores a new post from the unwrapped request body.
func (h *postHandlers) handleCreatePost(in Post) (*PostResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: post title cannot be empty", errors.ErrBadRequest)
	}

	now := h.now()
	stored := h.posts.Create(func(id string) domain.Post {
		return in.toDomain(id, now)
	})

	post, err := DomainPost(stored).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &PostResponse{Body: post}, nil
}

// handleDeletePost removes a post and the comments made on it.
func (h *postHandlers) handleDeletePost(id string) error {
	if err := h.posts.Delete(id); err != nil {
		return err
	}

	for _, c := range h.comments.Filter(func(c domain.Comment) bool { return c.PostID == id }) {
		if err := h.comments.Delete(c.ID); err != nil {
			return err
		}
	}

	return nil
}

// handleListComments returns the comments made on a post.
func (h *postHandlers) handleListComments(postID string) (*CommentsResponse, error) {
	if _, err := h.posts.Get(postID); err != nil {
		return nil, err
	}

	comments, err := h.commentsOf(postID)
	if err != nil {
		return nil, err
	}

	return &CommentsResponse{Body: comments}, nil
}

// handleCreateComment stores a new comment on a post from the unwrapped request body.
func (h *postHandlers) handleCreateComment(postID string, in Comment) (*CommentResponse, error) {
	if _, err := h.posts.Get(postID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, fmt.Errorf("%w: comment body cannot be empty", errors.ErrBadRequest)
	}

	now := h.now()
	stored := h.comments.Create(func(id string) domain.Comment {
		return in.toDomain(id, postID, now)
	})

	comment, err := DomainComment(stored).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &CommentResponse{Body: comment}, nil
}

func (h *postHandlers) commentsOf(postID string) ([]Comment, error) {
	return convertAll(
		h.comments.Filter(func(c domain.Comment) bool { return c.PostID == postID }),
		commentConverter,
	)
}
