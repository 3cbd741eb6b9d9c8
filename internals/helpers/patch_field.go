package helper

import (
	"encoding/json"

	"registrar_backend/internals/helpers/apperr"
)

/* =========================================================
   PATCH FIELD: tri-state (absent | null | value)
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// Set reports whether a non-null value was sent.
func (p PatchField[T]) Set() bool { return p.Present && p.Value != nil }

// Val returns the value or the zero value of T.
func (p PatchField[T]) Val() T {
	var zero T
	if p.Value == nil {
		return zero
	}
	return *p.Value
}

func Patch[T any](v T) PatchField[T] { return PatchField[T]{Present: true, Value: &v} }

func PatchNull[T any]() PatchField[T] { return PatchField[T]{Present: true} }

// ApplyRequired copies a patched value into dst. Null is rejected since the
// column is NOT NULL.
func ApplyRequired[T any](f PatchField[T], field string, dst *T) error {
	if !f.Present {
		return nil
	}
	if f.Value == nil {
		return apperr.Invalid(field, field+" cannot be null")
	}
	*dst = *f.Value
	return nil
}

// ApplyOptional copies a patched value (or null) into a nullable column.
func ApplyOptional[T any](f PatchField[T], dst **T) {
	if !f.Present {
		return
	}
	if f.Value == nil {
		*dst = nil
		return
	}
	v := *f.Value
	*dst = &v
}
