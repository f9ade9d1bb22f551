package repositories

import (
	"context"

	"quill/app/models"
	"quill/app/schema"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
//
// Comments are stored under prefix+postID+":"+id so that the comments of a
// post form one ordered key range. A secondary key idx:prefix+id points at
// the primary key for lookups by id.
type BadgerCommentRepository struct {
	db     *badger.DB
	entity schema.Entity
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB, reg *schema.Registry) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, entity: reg.MustEntity(schema.CommentEntity)}
}

func (r *BadgerCommentRepository) primaryKey(postID, id int) []byte {
	return idKey(r.entity.KeyPrefix, postID, id)
}

func (r *BadgerCommentRepository) indexKey(id int) []byte {
	return idKey(indexPrefix+r.entity.KeyPrefix, id)
}

func (r *BadgerCommentRepository) postPrefix(postID int) []byte {
	return append(idKey(r.entity.KeyPrefix, postID), ':')
}

func (r *BadgerCommentRepository) put(txn *badger.Txn, comment *models.Comment) error {
	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	key := r.primaryKey(comment.PostID, comment.ID)
	if err := txn.Set(key, data); err != nil {
		return err
	}
	return txn.Set(r.indexKey(comment.ID), key)
}

// lookup resolves the primary key of comment id.
func (r *BadgerCommentRepository) lookup(txn *badger.Txn, id int) ([]byte, error) {
	item, err := txn.Get(r.indexKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, r.entity.SeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		return r.put(txn, comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, id)
		if err != nil {
			return err
		}
		return getValue(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, r.postPrefix(postID), func(_, val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost counts the comments of a post without decoding them.
func (r *BadgerCommentRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := r.postPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Update updates an existing comment. Changing PostID moves the comment
// under the new post.
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, comment.ID)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return r.put(txn, comment)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(r.indexKey(id))
	})
}

// DeleteByPost removes every comment of a post in one transaction.
func (r *BadgerCommentRepository) DeleteByPost(ctx context.Context, postID int) (int, error) {
	return r.rewriteByPost(ctx, postID, func(txn *badger.Txn, c *models.Comment) error {
		return txn.Delete(r.indexKey(c.ID))
	})
}

// DetachFromPost clears the post reference of every comment of a post.
// Detached comments are kept under post id 0.
func (r *BadgerCommentRepository) DetachFromPost(ctx context.Context, postID int) (int, error) {
	return r.rewriteByPost(ctx, postID, func(txn *badger.Txn, c *models.Comment) error {
		c.PostID = 0
		return r.put(txn, c)
	})
}

// rewriteByPost deletes the primary key of each comment of postID and then
// hands the comment to fn.
func (r *BadgerCommentRepository) rewriteByPost(ctx context.Context, postID int, fn func(*badger.Txn, *models.Comment) error) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		var keys [][]byte
		var comments []*models.Comment
		err := scanPrefix(txn, r.postPrefix(postID), func(key, val []byte) error {
			var c models.Comment
			if err := unmarshalEntity(val, &c); err != nil {
				return err
			}
			keys = append(keys, key)
			comments = append(comments, &c)
			return nil
		})
		if err != nil {
			return err
		}

		for i, c := range comments {
			if err := txn.Delete(keys[i]); err != nil {
				return err
			}
			if err := fn(txn, c); err != nil {
				return err
			}
		}
		n = len(comments)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
