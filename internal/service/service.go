package service

import "errors"

var (
	ErrNotDefined      = errors.New("environment variable is not defined")
	ErrRootNotRendered = errors.New("root element is not rendered")
	ErrRunNotFound     = errors.New("run not found")
	ErrTimeout         = errors.New("timeout exceeded")
	ErrHistoryDisabled = errors.New("run history is disabled")
)
