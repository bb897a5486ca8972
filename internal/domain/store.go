package domain

import "context"

// Store groups the repositories that make up the relational store
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	TagTypes() TagTypeRepository
	TagValues() TagValueRepository
	Tags() TagRepository
	Validations() ValidationRepository

	// WithinTx runs fn against a Store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
