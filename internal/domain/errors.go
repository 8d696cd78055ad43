package domain

import "github.com/cockroachdb/errors"

// Domain errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrLabelsRequired    = errors.New("labels are required")
	ErrAssigneesRequired = errors.New("assignees are required")
	ErrInvalidMilestone  = errors.New("milestone must be a positive issue milestone number")
	ErrProjectNotFound   = errors.New("project not found")
	ErrColumnNotFound    = errors.New("project column not found")
	ErrInvalidRepository = errors.New("repository must be in owner/name form")
	ErrNoRepository      = errors.New("repository not set and no origin remote found")
	ErrNoToken           = errors.New("token not set (use --token, INPUT_TOKEN or GITHUB_TOKEN)")
)
