// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
// Callers translate it into the domain conflict error so a storage-level race
// surfaces exactly like the handler pre-check, never as a 500.
var ErrDuplicate = errors.New("duplicate key")

// translateDuplicate maps driver duplicate-key failures onto ErrDuplicate.
// gorm's TranslateError covers postgres; sqlite (tests) is sniffed by message.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return ErrDuplicate
	}
	return err
}
