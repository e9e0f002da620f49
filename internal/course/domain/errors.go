package domain

import "errors"

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrDuplicateTitle    = errors.New("course with this title already exists")
	ErrInsufficientStock = errors.New("insufficient inventory")
)
