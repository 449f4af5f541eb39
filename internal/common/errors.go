// Package common defines shared constants and sentinel errors used across
// passync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Configuration errors.
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrRemoteDirRequired = errors.New("remote passwords directory path required")

	// Storage errors.
	ErrNotFound    = errors.New("not found")
	ErrDirNotFound = errors.New("directory does not exist")

	ErrMtimeUnsupported = errors.New("filesystem cannot set modification times")

	// Drive errors.
	ErrAuthFailed = errors.New("authentication failed")
	ErrRemoteList = errors.New("could not list remote passwords directory")
	ErrTransfer   = errors.New("transfer failed")

	// Prompt errors.
	ErrEmptyInput = errors.New("empty input")
)
