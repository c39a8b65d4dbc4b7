package models

import "errors"

// Store-level sentinel errors shared by every repository.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)
