package service

import "errors"

var (
	ErrNoItems             = errors.New("no items to check out")
	ErrPersistenceMismatch = errors.New("purchase row count does not match requested items")
)
