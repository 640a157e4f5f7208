package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell/backend/internal/model"
)

func (db *Postgres) EnsurePostSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts(created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS posts_author_id_idx ON posts(author_id)`,
		`CREATE INDEX IF NOT EXISTS posts_published_idx ON posts(published) WHERE published`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("ensure post schema: %w", err)
		}
	}
	return nil
}

const postSelectColumns = `
	p.id, p.title, p.content, p.author_id, p.published, p.created_at, p.updated_at,
	u.id, u.email, u.name, u.created_at, u.updated_at
`

// postFilterClause renders the WHERE clause for a filter. The returned args
// line up with $1..$n placeholders; callers append their own args after.
func postFilterClause(filter model.PostFilter) (string, []any) {
	conds := []string{}
	args := []any{}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if filter.PublishedOnly {
		conds = append(conds, "p.published")
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (db *Postgres) CountPosts(ctx context.Context, filter model.PostFilter) (int, error) {
	where, args := postFilterClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM posts p %s`, where)

	var count int
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// ListPosts returns one window of posts, newest first, ties broken by id so
// the order is stable across requests.
func (db *Postgres) ListPosts(ctx context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error) {
	where, args := postFilterClause(filter)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postSelectColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (db *Postgres) GetPostByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, postSelectColumns)

	post, err := scanPost(db.Pool.QueryRow(ctx, query, postID))
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) CreatePost(ctx context.Context, title, content string, authorID int64, published bool) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, content, author_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	var postID int64
	if err := db.Pool.QueryRow(ctx, query, title, content, authorID, published).Scan(&postID); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	post, err := db.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("create post %d: %w", postID, err)
	}
	return post, nil
}

// UpdatePost applies the non-nil fields of req. Returns pgx.ErrNoRows when
// the id does not exist.
func (db *Postgres) UpdatePost(ctx context.Context, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    published = COALESCE($4, published),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var updatedID int64
	if err := db.Pool.QueryRow(ctx, query, postID, req.Title, req.Content, req.Published).Scan(&updatedID); err != nil {
		return nil, err
	}
	return db.GetPostByID(ctx, updatedID)
}

func (db *Postgres) DeletePost(ctx context.Context, postID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", postID, err)
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (model.Post, error) {
	var (
		post   model.Post
		author model.User
	)
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
		&author.ID,
		&author.Email,
		&author.Name,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}
	post.Author = &author
	return post, nil
}
