// Package schema holds the entity descriptors that the persistence code
// consults: storage names, key layouts and associations.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Entity names used across the application.
const (
	PostEntity    = "post"
	CommentEntity = "comment"
)

// Kind is the cardinality of an association.
type Kind string

const HasMany Kind = "has_many"

// Dependent tells what happens to associated records when their owner is
// deleted.
type Dependent string

const (
	// DependentRestrict refuses to delete an owner that still has records.
	DependentRestrict Dependent = "restrict"
	// DependentDestroy deletes the associated records together with the owner.
	DependentDestroy Dependent = "destroy"
	// DependentNullify clears the foreign key of the associated records.
	DependentNullify Dependent = "nullify"
)

// ParseDependent converts a configuration value into a Dependent policy.
func ParseDependent(s string) (Dependent, error) {
	switch d := Dependent(strings.ToLower(strings.TrimSpace(s))); d {
	case DependentRestrict, DependentDestroy, DependentNullify:
		return d, nil
	case "":
		return DependentRestrict, nil
	default:
		return "", fmt.Errorf("unknown dependent policy %q (want restrict, destroy or nullify)", s)
	}
}

// Association links an owner entity to a target entity.
type Association struct {
	Name       string
	Kind       Kind
	Target     string
	ForeignKey string
	Dependent  Dependent
}

// Entity describes how a record type is stored.
type Entity struct {
	Name         string
	Table        string
	KeyPrefix    string
	SeqKey       string
	Associations []Association
}

// Association returns the association called name.
func (e Entity) Association(name string) (Association, bool) {
	for _, a := range e.Associations {
		if a.Name == name {
			return a, true
		}
	}
	return Association{}, false
}

var (
	ErrDuplicateEntity = errors.New("entity already registered")
	ErrUnknownEntity   = errors.New("unknown entity")
)

// Registry is the set of entities known to a running application. It is
// built once at startup and read afterwards.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entities: make(map[string]Entity)}
}

// Default returns the registry for posts and their comments, using the
// given policy for comments of a deleted post.
func Default(dependent Dependent) *Registry {
	r := New()
	r.MustRegister(Entity{
		Name:      CommentEntity,
		Table:     "comments",
		KeyPrefix: "comment:",
		SeqKey:    "seq:comment",
	})
	r.MustRegister(Entity{
		Name:      PostEntity,
		Table:     "posts",
		KeyPrefix: "post:",
		SeqKey:    "seq:post",
		Associations: []Association{
			{
				Name:       "comments",
				Kind:       HasMany,
				Target:     CommentEntity,
				ForeignKey: "post_id",
				Dependent:  dependent,
			},
		},
	})
	return r
}

// Register adds e. Associations must point at entities that are already
// registered.
func (r *Registry) Register(e Entity) error {
	if e.Name == "" {
		return errors.New("entity name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[e.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, e.Name)
	}
	for _, a := range e.Associations {
		if _, ok := r.entities[a.Target]; !ok && a.Target != e.Name {
			return fmt.Errorf("%w: %s.%s targets %s", ErrUnknownEntity, e.Name, a.Name, a.Target)
		}
	}
	r.entities[e.Name] = e
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(e Entity) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Entity returns the entity called name.
func (r *Registry) Entity(name string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

// MustEntity is like Entity but panics when name is unknown.
func (r *Registry) MustEntity(name string) Entity {
	e, ok := r.Entity(name)
	if !ok {
		panic(fmt.Sprintf("%v: %s", ErrUnknownEntity, name))
	}
	return e
}

// HasMany returns the has-many associations declared by owner.
func (r *Registry) HasMany(owner string) []Association {
	e, ok := r.Entity(owner)
	if !ok {
		return nil
	}
	var out []Association
	for _, a := range e.Associations {
		if a.Kind == HasMany {
			out = append(out, a)
		}
	}
	return out
}
