package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
	"quill/app/schema"
)

// PostRepository implements repositories.PostRepository on SQLite.
type PostRepository struct {
	db    *sql.DB
	table string
}

func NewPostRepository(db *sql.DB, reg *schema.Registry) *PostRepository {
	return &PostRepository{db: db, table: reg.MustEntity(schema.PostEntity).Table}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (title, body, created_at, updated_at) VALUES (?, ?, ?, ?)", r.table),
		post.Title, post.Body, post.CreatedAt.UTC(), post.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(id)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, title, body, created_at, updated_at FROM %s WHERE id = ?", r.table), id)

	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, title, body, created_at, updated_at FROM %s ORDER BY id LIMIT ? OFFSET ?", r.table),
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET title = ?, body = ?, updated_at = ? WHERE id = ?", r.table),
		post.Title, post.Body, post.UpdatedAt.UTC(), post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectAffected(res)
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table), id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

var _ repositories.PostRepository = (*PostRepository)(nil)
