package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewRunID issues a short opaque identifier stamped on the log lines of
// one evaluation run.
func NewRunID() string {
	id, err := gonanoid.New()
	if err != nil {
		return "unknown"
	}
	return id
}
