package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToUUID converts a uuid.UUID to a pgtype.UUID.
func ToUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// ToNullUUID converts a *uuid.UUID to a pgtype.UUID.
// A nil pointer is considered invalid (NULL).
func ToNullUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// FromNullUUID converts a pgtype.UUID to a *uuid.UUID.
// A NULL value becomes a nil pointer.
func FromNullUUID(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	value := uuid.UUID(id.Bytes)
	return &value
}

// ToNullTime converts a *time.Time to a pgtype.Timestamptz.
// A nil pointer is considered invalid (NULL).
func ToNullTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// FromNullTime converts a pgtype.Timestamptz to a *time.Time.
// A NULL value becomes a nil pointer.
func FromNullTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
