package repository

import "errors"

var (
	// ErrPresetNotFound indicates no preset is registered under the name
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidPreset indicates a preset that does not describe a buildable kernel
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrDuplicatePreset indicates the same name appears twice in one file
	ErrDuplicatePreset = errors.New("duplicate preset")
)
