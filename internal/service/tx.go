package service

import (
	"context"
	"errors"

	"batchtrace/internal/apierror"

	"gorm.io/gorm"
)

// runTx wraps fn in a database transaction. When db is nil (unit tests with
// stub repositories) fn runs directly with a nil tx, which the stubs accept.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// translateNotFound maps the storage layer's missing-record error onto the
// domain taxonomy; other errors pass through untouched.
func translateNotFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NewNotFound(entity, id)
	}
	return err
}
