package apperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FromDB maps a store error onto the taxonomy. what names the entity for
// the message, e.g. "subject COMP101". Unknown errors pass through.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: what + " not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindDuplicateKey, Message: what + " already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindIntegrity, Message: what + " is still referenced", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if k, ok := kindFromSQLState(pgErr.Code); ok {
			return &Error{Kind: k, Message: messageFor(k, what), Err: err}
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if k, ok := kindFromSQLState(string(pqErr.Code)); ok {
			return &Error{Kind: k, Message: messageFor(k, what), Err: err}
		}
	}

	// sqlite and untranslated drivers
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return &Error{Kind: KindDuplicateKey, Message: messageFor(KindDuplicateKey, what), Err: err}
	case strings.Contains(msg, "foreign key constraint"):
		return &Error{Kind: KindIntegrity, Message: messageFor(KindIntegrity, what), Err: err}
	}
	return err
}

func kindFromSQLState(code string) (Kind, bool) {
	switch code {
	case pgerrcode.UniqueViolation:
		return KindDuplicateKey, true
	case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
		return KindIntegrity, true
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation,
		pgerrcode.StringDataRightTruncationDataException, pgerrcode.NumericValueOutOfRange:
		return KindValidation, true
	}
	return KindInternal, false
}

func messageFor(k Kind, what string) string {
	switch k {
	case KindDuplicateKey:
		return what + " already exists"
	case KindIntegrity:
		return what + " is still referenced"
	case KindValidation:
		return what + " has an invalid value"
	case KindNotFound:
		return what + " not found"
	}
	return what
}
