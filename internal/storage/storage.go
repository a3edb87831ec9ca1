package storage

import "errors"

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrContextCancelled = errors.New("context cancelled")
	ErrEmptyKey         = errors.New("empty key")
)
