package persistence

import (
	"errors"
	"strings"

	apperrors "github.com/threaddit/backend/pkg/errors"
	"gorm.io/gorm"
)

// karmaExpr sums a reaction set into +1/-1 votes.
const karmaExpr = "COALESCE(SUM(CASE WHEN r.is_upvote THEN 1 ELSE -1 END), 0)"

// first runs tx.First into dest and maps a missing row to (nil, nil).
func first[T any](tx *gorm.DB, dest *T) (*T, error) {
	err := tx.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}

// ignoreDuplicate treats a unique-key violation as success for idempotent inserts.
func ignoreDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// conflictOn maps a unique-key violation to a ConflictError.
func conflictOn(err error, resource, field, value string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflictError(resource, field, value)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
