package client

import (
	"context"

	"github.com/inkwell/backend/internal/model"
)

// PostList accumulates successive pages of one post listing into a growing
// slice. A page fetched at offset 0 replaces the slice (refresh); any later
// page is appended. All methods must run on a single goroutine; the
// in-flight flag exists to make overlapping async completions a no-op, not
// to make the type safe for concurrent use.
type PostList struct {
	client *Client
	filter ListFilter
	limit  int

	posts       []model.Post
	totalCount  int
	currentPage int
	hasMore     bool
	loading     bool
}

func NewPostList(client *Client, filter ListFilter, limit int) *PostList {
	if limit <= 0 {
		limit = 10
	}
	return &PostList{
		client: client,
		filter: filter,
		limit:  limit,
	}
}

// Refresh fetches the first page and replaces everything accumulated so
// far. Callers use it both for the initial load and after mutations.
func (l *PostList) Refresh(ctx context.Context) error {
	if l.loading {
		return nil
	}
	l.loading = true
	defer func() { l.loading = false }()

	connection, err := l.client.ListPosts(ctx, l.filter, model.Pagination{Limit: l.limit, Offset: 0})
	if err != nil {
		return err
	}

	l.posts = connection.Posts
	l.totalCount = connection.TotalCount
	l.hasMore = connection.HasMore
	l.currentPage = 0
	return nil
}

// LoadMore fetches the next page and appends it. It is a no-op when there
// is nothing more to load or a load is already in flight, so repeated
// calls cannot double-append a page.
func (l *PostList) LoadMore(ctx context.Context) error {
	if !l.hasMore || l.loading {
		return nil
	}
	l.loading = true
	defer func() { l.loading = false }()

	nextPage := l.currentPage + 1
	offset := nextPage * l.limit

	connection, err := l.client.ListPosts(ctx, l.filter, model.Pagination{Limit: l.limit, Offset: offset})
	if err != nil {
		return err
	}

	l.posts = append(l.posts, connection.Posts...)
	l.totalCount = connection.TotalCount
	l.hasMore = connection.HasMore
	l.currentPage = nextPage
	return nil
}

func (l *PostList) Posts() []model.Post {
	return l.posts
}

func (l *PostList) TotalCount() int {
	return l.totalCount
}

func (l *PostList) HasMore() bool {
	return l.hasMore
}

func (l *PostList) Loading() bool {
	return l.loading
}
