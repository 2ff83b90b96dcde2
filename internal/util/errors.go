package util

import "errors"

var (
	ErrInvalidQuality       = errors.New("review quality must be an integer between 0 and 5")
	ErrInvalidDifficulty    = errors.New("difficulty must be between 1 and 10")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrVersionConflict      = errors.New("record was modified concurrently")
	ErrReviewItemNotFound   = errors.New("review item not found")
	ErrLearningPathNotFound = errors.New("learning path not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrNodeNotFound         = errors.New("path node not found")
	ErrBranchNotFound       = errors.New("path branch not found")
	ErrPermissionDenied     = errors.New("permission denied")
)
