package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/backend/internal/model"
	"github.com/inkwell/backend/internal/service"
	"go.uber.org/zap"
)

type PostHandler struct {
	svc    *service.PostService
	logger *zap.Logger
}

func NewPostHandler(svc *service.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// List godoc
// @Summary List posts
// @Description Newest first. Filter with authorId and published=true;
// @Description window with limit (default 10) and offset (default 0).
// @Tags posts
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "window start"
// @Param authorId query int false "only posts by this author"
// @Param published query bool false "only published posts"
// @Success 200 {object} model.PostConnection
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	var filter model.PostFilter
	if raw := c.Query("authorId"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid authorId"})
			return
		}
		filter.AuthorID = &authorID
	}
	filter.PublishedOnly = c.Query("published") == "true"

	connection, err := h.svc.List(c.Request.Context(), filter, page)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

// Get godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path int true "post id"
// @Success 200 {object} model.Post
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.svc.Get(c.Request.Context(), postID)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Description The authenticated user becomes the author.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreatePostRequest true "Title, content, published flag"
// @Success 200 {object} model.Post
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	authCtx := GetAuthContext(c)
	post, err := h.svc.Create(c.Request.Context(), authCtx.User.ID, req)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Update a post
// @Description Partial update; absent fields are left as they are.
// @Description Only the author may update a post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "post id"
// @Param request body model.UpdatePostRequest true "Fields to change"
// @Success 200 {object} model.Post
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	authCtx := GetAuthContext(c)
	post, err := h.svc.Update(c.Request.Context(), authCtx.User.ID, postID, req)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a post
// @Description Only the author may delete a post.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "post id"
// @Success 200 {object} model.DeleteResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	authCtx := GetAuthContext(c)
	deleted, err := h.svc.Delete(c.Request.Context(), authCtx.User.ID, postID)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, model.DeleteResponse{Deleted: true})
}

func (h *PostHandler) writePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		h.logger.Error("post operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
