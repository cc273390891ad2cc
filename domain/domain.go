// Package domain holds the types shared by carrier's repositories.
package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("domain: not found")
	// ErrConstraint is returned when a row cannot be deleted or changed
	// because other rows depend on it.
	ErrConstraint = errors.New("domain: constraint violation")
)

// HumanValue pairs a stored value with the title and description shown to people.
type HumanValue[T comparable] struct {
	Value       T      `json:"value"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HumanValues is a closed set of HumanValue, e.g. the options of a select.
type HumanValues[T comparable] []HumanValue[T]

// Find returns the entry for v.
func (hv HumanValues[T]) Find(v T) (HumanValue[T], bool) {
	for _, h := range hv {
		if h.Value == v {
			return h, true
		}
	}
	return HumanValue[T]{}, false
}

// Title returns the title for v, or an empty string.
func (hv HumanValues[T]) Title(v T) string {
	h, _ := hv.Find(v)
	return h.Title
}

// Valid reports whether v belongs to the set.
func (hv HumanValues[T]) Valid(v T) bool {
	_, ok := hv.Find(v)
	return ok
}

// Repository is the operation set every table repository offers.
type Repository[ID comparable, T any] interface {
	Insert(ctx context.Context, item *T) (ID, error)
	Update(ctx context.Context, item *T) error
	FindByID(ctx context.Context, id ID) (bool, error)
	RetrieveByID(ctx context.Context, id ID) (*T, error)
	RetrieveAll(ctx context.Context) ([]T, error)
	// VerifyConstraintsByID lists the reasons id cannot be deleted.
	// An empty list means it can.
	VerifyConstraintsByID(ctx context.Context, id ID) ([]string, error)
	DeleteByID(ctx context.Context, id ID) error
}
