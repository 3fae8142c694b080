package domain

import "errors"

var (
	ErrEmptyTitle    = errors.New("title is empty")
	ErrNotFound      = errors.New("task not found")
	ErrInvalidColumn = errors.New("invalid column")
)
