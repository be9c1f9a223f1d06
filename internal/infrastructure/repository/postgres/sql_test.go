package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches duplicate key error", func(t *testing.T) {
		err := fakeErr(`pq: duplicate key value violates unique constraint "matches_pkey"`)
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for duplicate key error")
		}
	})

	t.Run("matches by 23505 code", func(t *testing.T) {
		err := fakeErr("pq: unique violation (23505)")
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for 23505 error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation matches does not exist")
		if isUniqueViolation(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestOptionalString(t *testing.T) {
	if got := optionalString("  "); got != nil {
		t.Fatalf("expected nil for blank string, got %q", *got)
	}
	if got := optionalString(" abc "); got == nil || *got != "abc" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
}

func TestNullTimeToTimePtr(t *testing.T) {
	if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil for null time, got %v", got)
	}

	now := time.Now()
	got := nullTimeToTimePtr(sql.NullTime{Time: now, Valid: true})
	if got == nil || !got.Equal(now) {
		t.Fatalf("expected %v, got %v", now, got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
