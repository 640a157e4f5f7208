package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/backend/internal/model"
	"github.com/inkwell/backend/internal/service"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type memoryPostStore struct {
	nextID int64
	posts  []model.Post
}

func (s *memoryPostStore) seed(n int, authorID int64, published bool) {
	for i := 0; i < n; i++ {
		s.nextID++
		post := model.Post{
			ID:        s.nextID,
			Title:     fmt.Sprintf("post %d", s.nextID),
			Content:   "content",
			AuthorID:  authorID,
			Published: published,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		s.posts = append([]model.Post{post}, s.posts...)
	}
}

func (s *memoryPostStore) matching(filter model.PostFilter) []model.Post {
	out := []model.Post{}
	for _, p := range s.posts {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.PublishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *memoryPostStore) CountPosts(_ context.Context, filter model.PostFilter) (int, error) {
	return len(s.matching(filter)), nil
}

func (s *memoryPostStore) ListPosts(_ context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error) {
	matched := s.matching(filter)
	if offset >= len(matched) {
		return []model.Post{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *memoryPostStore) GetPostByID(_ context.Context, postID int64) (*model.Post, error) {
	for _, p := range s.posts {
		if p.ID == postID {
			post := p
			return &post, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *memoryPostStore) CreatePost(_ context.Context, title, content string, authorID int64, published bool) (*model.Post, error) {
	s.nextID++
	post := model.Post{
		ID: s.nextID, Title: title, Content: content,
		AuthorID: authorID, Published: published,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.posts = append([]model.Post{post}, s.posts...)
	return &post, nil
}

func (s *memoryPostStore) UpdatePost(_ context.Context, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	for i, p := range s.posts {
		if p.ID != postID {
			continue
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Content != nil {
			p.Content = *req.Content
		}
		if req.Published != nil {
			p.Published = *req.Published
		}
		s.posts[i] = p
		return &p, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *memoryPostStore) DeletePost(_ context.Context, postID int64) (bool, error) {
	for i, p := range s.posts {
		if p.ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newPostAPIRouter(t *testing.T, store *memoryPostStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewPostHandler(service.NewPostService(store), zap.NewNop())

	r := gin.New()
	r.GET("/api/v1/posts", h.List)
	r.GET("/api/v1/posts/:id", h.Get)
	return r
}

func getConnection(t *testing.T, r *gin.Engine, path string) model.PostConnection {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s got %d: %s", path, w.Code, w.Body.String())
	}
	var conn model.PostConnection
	if err := json.Unmarshal(w.Body.Bytes(), &conn); err != nil {
		t.Fatalf("GET %s response: %v", path, err)
	}
	return conn
}

func TestPostListEndpoint(t *testing.T) {
	store := &memoryPostStore{}
	store.seed(8, 1, true)
	store.seed(4, 2, false)
	r := newPostAPIRouter(t, store)

	all := getConnection(t, r, "/api/v1/posts?limit=5&offset=0")
	if all.TotalCount != 12 || len(all.Posts) != 5 || !all.HasMore {
		t.Fatalf("all = {total:%d len:%d more:%v}, want {12 5 true}", all.TotalCount, len(all.Posts), all.HasMore)
	}

	published := getConnection(t, r, "/api/v1/posts?published=true")
	if published.TotalCount != 8 {
		t.Fatalf("published total = %d, want 8", published.TotalCount)
	}

	byAuthor := getConnection(t, r, "/api/v1/posts?authorId=2")
	if byAuthor.TotalCount != 4 || byAuthor.HasMore {
		t.Fatalf("author = {total:%d more:%v}, want {4 false}", byAuthor.TotalCount, byAuthor.HasMore)
	}
}

func TestPostListBadParams(t *testing.T) {
	r := newPostAPIRouter(t, &memoryPostStore{})

	for _, path := range []string{
		"/api/v1/posts?authorId=abc",
		"/api/v1/posts?limit=abc",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("GET %s got %d, want 400", path, w.Code)
		}
	}
}

func TestPostGetEndpoint(t *testing.T) {
	store := &memoryPostStore{}
	store.seed(1, 1, true)
	r := newPostAPIRouter(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/1", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts/999", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get missing got %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts/abc", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("get bad id got %d, want 400", w.Code)
	}
}
