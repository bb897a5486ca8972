package service

import (
	"context"
	"errors"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// Clock supplies the current time to the services
type Clock func() time.Time

// notFound turns a repository miss into a NotFound carrying msg and leaves other errors untouched
func notFound(err error, msg string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return &domain.Error{Kind: domain.KindNotFound, Message: msg, Err: err}
	}
	return err
}

// requireRole fails with Conflict(msg) unless id belongs to a user with role
func requireRole(ctx context.Context, users domain.UserRepository, id int64, role domain.Role, msg string) error {
	ok, err := users.ExistsByIDAndRole(ctx, id, role)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewConflict(msg)
	}
	return nil
}

// requireUser fails with NotFound(msg) unless id resolves to a user row
func requireUser(ctx context.Context, users domain.UserRepository, id int64, msg string) error {
	if _, err := users.GetByID(ctx, id); err != nil {
		return notFound(err, msg)
	}
	return nil
}
