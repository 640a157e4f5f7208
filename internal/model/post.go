package model

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"authorId"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *User     `json:"author,omitempty"`
}

// PostConnection is one page of posts plus the window bookkeeping the
// client needs to keep paging.
type PostConnection struct {
	Posts      []Post `json:"posts"`
	TotalCount int    `json:"totalCount"`
	HasMore    bool   `json:"hasMore"`
}

// Pagination carries the requested window. Zero values mean "use defaults"
// (limit 10, offset 0).
type Pagination struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// PostFilter narrows a listing. Zero value selects every post.
type PostFilter struct {
	AuthorID      *int64
	PublishedOnly bool
}

type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// UpdatePostRequest carries a partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}
