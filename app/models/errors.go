package models

import (
	"fmt"
	"sort"
	"strings"
)

// BaseField collects messages that do not belong to a single attribute.
const BaseField = "base"

// Errors holds validation messages keyed by attribute name.
type Errors map[string][]string

// Add appends a message for field. Duplicate messages are ignored.
func (e Errors) Add(field, message string) {
	for _, m := range e[field] {
		if m == message {
			return
		}
	}
	e[field] = append(e[field], message)
}

// On returns the messages recorded for field.
func (e Errors) On(field string) []string {
	return e[field]
}

// Empty reports whether no messages were recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Len returns the total number of messages.
func (e Errors) Len() int {
	n := 0
	for _, msgs := range e {
		n += len(msgs)
	}
	return n
}

// Fields returns the attributes with errors in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// FullMessages renders each message prefixed with its humanized attribute
// name, e.g. "Title can't be blank".
func (e Errors) FullMessages() []string {
	out := make([]string, 0, e.Len())
	for _, f := range e.Fields() {
		for _, m := range e[f] {
			if f == BaseField {
				out = append(out, m)
				continue
			}
			out = append(out, humanize(f)+" "+m)
		}
	}
	return out
}

// ValidationError reports that an entity was rejected before being written.
type ValidationError struct {
	Entity string
	Errors Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Errors.FullMessages(), ", "))
}

func humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
