package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/backend/internal/db"
	"github.com/inkwell/backend/internal/model"
)

const defaultPageLimit = 10

var ErrForbidden = errors.New("forbidden")

// PostStore is the slice of the post repository the service needs.
type PostStore interface {
	CountPosts(ctx context.Context, filter model.PostFilter) (int, error)
	ListPosts(ctx context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (*model.Post, error)
	CreatePost(ctx context.Context, title, content string, authorID int64, published bool) (*model.Post, error)
	UpdatePost(ctx context.Context, postID int64, req model.UpdatePostRequest) (*model.Post, error)
	DeletePost(ctx context.Context, postID int64) (bool, error)
}

type PostService struct {
	posts PostStore
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

// List returns one page of posts matching the filter, newest first, plus the
// total count and whether another page exists. The count and the page run as
// separate queries without a shared snapshot, so under concurrent writes
// they can disagree; callers accept that.
func (s *PostService) List(ctx context.Context, filter model.PostFilter, page model.Pagination) (*model.PostConnection, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	totalCount, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts, err := s.posts.ListPosts(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &model.PostConnection{
		Posts:      posts,
		TotalCount: totalCount,
		HasMore:    offset+limit < totalCount,
	}, nil
}

// Get returns nil without error when the post does not exist.
func (s *PostService) Get(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, authorID int64, req model.CreatePostRequest) (*model.Post, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return s.posts.CreatePost(ctx, req.Title, req.Content, authorID, req.Published)
}

// Update applies a partial update. Only the author may modify a post.
// Returns nil without error when the post does not exist.
func (s *PostService) Update(ctx context.Context, actorID, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	existing, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if existing.AuthorID != actorID {
		return nil, ErrForbidden
	}

	post, err := s.posts.UpdatePost(ctx, postID, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update post %d: %w", postID, err)
	}
	return post, nil
}

// Delete reports false without error when the post does not exist.
func (s *PostService) Delete(ctx context.Context, actorID, postID int64) (bool, error) {
	existing, err := s.Get(ctx, postID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.AuthorID != actorID {
		return false, ErrForbidden
	}

	return s.posts.DeletePost(ctx, postID)
}
