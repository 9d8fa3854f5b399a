package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates an account with the same email already exists.
	ErrDuplicateEmail = errors.New("repository: email already exists")
	// ErrDuplicateNickname indicates an account with the same nickname already exists.
	ErrDuplicateNickname = errors.New("repository: nickname already exists")
)
