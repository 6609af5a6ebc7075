package relational

import (
	"strings"

	"techmarket/internal/errors"

	"gorm.io/gorm"
)

// describeWriteError names the violated constraint when the driver reports one.
func describeWriteError(err error, table string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return errors.Wrapf(err, "insert into %s: duplicate key", table)
	case isForeignKeyConstraintViolation(err):
		return errors.Wrapf(err, "insert into %s: missing referenced row", table)
	case isNotNullConstraintViolation(err):
		return errors.Wrapf(err, "insert into %s: missing required column", table)
	default:
		return errors.Wrapf(err, "insert into %s", table)
	}
}

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint")
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "foreign key constraint")
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null constraint") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}
