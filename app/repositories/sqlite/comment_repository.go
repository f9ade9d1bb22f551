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

// CommentRepository implements repositories.CommentRepository on SQLite.
// A detached comment has a NULL post_id and reads back as PostID 0.
type CommentRepository struct {
	db    *sql.DB
	table string
	fk    string
}

func NewCommentRepository(db *sql.DB, reg *schema.Registry) *CommentRepository {
	fk := "post_id"
	if a, ok := reg.MustEntity(schema.PostEntity).Association("comments"); ok {
		fk = a.ForeignKey
	}
	return &CommentRepository{db: db, table: reg.MustEntity(schema.CommentEntity).Table, fk: fk}
}

func nullableID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(s scanner) (*models.Comment, error) {
	var c models.Comment
	var postID sql.NullInt64
	if err := s.Scan(&c.ID, &postID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.PostID = int(postID.Int64)
	return &c, nil
}

func (r *CommentRepository) columns() string {
	return fmt.Sprintf("id, %s, author, body, created_at", r.fk)
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s, author, body, created_at) VALUES (?, ?, ?, ?)", r.table, r.fk),
		nullableID(comment.PostID), comment.Author, comment.Body, comment.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.columns(), r.table), id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return c, nil
}

// postFilter matches comments of postID; post id 0 selects detached ones.
func (r *CommentRepository) postFilter(postID int) (string, []any) {
	if postID == 0 {
		return r.fk + " IS NULL", nil
	}
	return r.fk + " = ?", []any{postID}
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	where, args := r.postFilter(postID)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id", r.columns(), r.table, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	where, args := r.postFilter(postID)
	var n int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.table, where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = ?, author = ?, body = ? WHERE id = ?", r.table, r.fk),
		nullableID(comment.PostID), comment.Author, comment.Body, comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return expectAffected(res)
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table), id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return expectAffected(res)
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int) (int, error) {
	where, args := r.postFilter(postID)
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", r.table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *CommentRepository) DetachFromPost(ctx context.Context, postID int) (int, error) {
	if postID == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", r.table, r.fk, r.fk), postID)
	if err != nil {
		return 0, fmt.Errorf("detach comments: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)
