package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsMatchesKind(t *testing.T) {
	err := NotFound("student %s not found", "2021-001")
	wrapped := fmt.Errorf("enroll: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrDuplicateKey))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "student 2021-001 not found", err.Error())
}

func TestInvalidCarriesField(t *testing.T) {
	err := Invalid("year_level", "year_level must be between 1 and 4")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "year_level must be between 1 and 4", err.Fields["year_level"])
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want Kind
	}{
		{"record not found", gorm.ErrRecordNotFound, KindNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, KindDuplicateKey},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, KindIntegrity},
		{"pgx unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, KindDuplicateKey},
		{"pgx foreign key", fmt.Errorf("tx: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), KindIntegrity},
		{"libpq unique", &pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}, KindDuplicateKey},
		{"pgx numeric overflow", &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange}, KindValidation},
		{"libpq numeric overflow", &pq.Error{Code: pq.ErrorCode(pgerrcode.NumericValueOutOfRange)}, KindValidation},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: courses.course_abv (2067)"), KindDuplicateKey},
		{"unknown", errors.New("connection reset"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB(tt.in, "course BSIT")
			assert.Equal(t, tt.want, KindOf(got))
			if tt.want != KindInternal {
				assert.True(t, errors.Is(got, tt.in) || errors.Unwrap(got) != nil)
			}
		})
	}

	assert.Nil(t, FromDB(nil, "x"))

	orig := Duplicate("subject COMP101 already exists")
	assert.Same(t, orig, FromDB(orig, "ignored"))
}
