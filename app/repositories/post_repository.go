package repositories

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/schema"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db     *badger.DB
	entity schema.Entity
}

// NewBadgerPostRepository creates a new BadgerPostRepository. Key layout
// comes from the post entity of reg.
func NewBadgerPostRepository(db *badger.DB, reg *schema.Registry) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, entity: reg.MustEntity(schema.PostEntity)}
}

func (r *BadgerPostRepository) key(id int) []byte {
	return idKey(r.entity.KeyPrefix, id)
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, r.entity.SeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		return r.put(txn, post)
	})
}

// put stores the post without its loaded comments.
func (r *BadgerPostRepository) put(txn *badger.Txn, post *models.Post) error {
	stored := *post
	stored.Comments = nil
	data, err := marshalEntity(&stored)
	if err != nil {
		return err
	}
	return txn.Set(r.key(post.ID), data)
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, r.key(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves a page of posts in ascending ID order. A limit of zero
// or less means no limit.
func (r *BadgerPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		count := 0
		prefix := []byte(r.entity.KeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if count < offset {
				count++
				continue
			}
			if limit > 0 && len(posts) >= limit {
				break
			}

			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(r.key(post.ID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return r.put(txn, post)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := r.key(id)
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
