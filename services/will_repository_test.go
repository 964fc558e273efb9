package services

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatal("expected a unique violation to be recognized")
	}
	if !isUniqueViolation(fmt.Errorf("insert failed: %w", &pq.Error{Code: "23505"})) {
		t.Fatal("expected a wrapped unique violation to be recognized")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("a foreign key violation is not a unique violation")
	}
	if isUniqueViolation(sql.ErrNoRows) {
		t.Fatal("a missing row is not a unique violation")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatal("an arbitrary error is not a unique violation")
	}
	if isUniqueViolation(nil) {
		t.Fatal("nil is not a unique violation")
	}
}
