package services

import (
	"errors"

	"quill/app/models"
	"quill/app/schema"

	"go.uber.org/zap"
)

// ErrDependentRecords is returned when a post cannot be deleted because
// the restrict policy protects its comments.
var ErrDependentRecords = errors.New("post still has comments")

// FailureRecorder receives one call per field of every rejected save.
type FailureRecorder interface {
	RecordValidationFailure(entity, field string)
}

type options struct {
	registry        *schema.Registry
	logger          *zap.SugaredLogger
	recorder        FailureRecorder
	defaultPageSize int
	maxPageSize     int
}

type Option func(*options)

// WithRegistry sets the entity registry consulted for association policies.
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) { o.registry = r }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

func WithFailureRecorder(r FailureRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithPageSize bounds ListPosts. perPage values below one fall back to def,
// values above maxSize are clamped.
func WithPageSize(def, maxSize int) Option {
	return func(o *options) {
		o.defaultPageSize = def
		o.maxPageSize = maxSize
	}
}

func buildOptions(opts []Option) options {
	o := options{
		defaultPageSize: 10,
		maxPageSize:     100,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = schema.Default(schema.DependentRestrict)
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}
	return o
}

// reject builds the validation error for entity and reports it.
func (o options) reject(entity string, errs models.Errors) error {
	for _, f := range errs.Fields() {
		if o.recorder != nil {
			o.recorder.RecordValidationFailure(entity, f)
		}
	}
	o.logger.Debugw("rejected save", "entity", entity, "errors", errs)
	return &models.ValidationError{Entity: entity, Errors: errs}
}
