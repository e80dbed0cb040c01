// Package project stores the files of integration projects and serves the
// topology derived from them.
package project

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a project file does not exist.
	ErrNotFound = errors.New("project file not found")
	// ErrFileExists is returned when creating a file whose name is taken.
	ErrFileExists = errors.New("project file already exists")
)

// ProjectFile is one file of a project. Names are unique per project.
type ProjectFile struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Code       string    `json:"code"`
	LastUpdate time.Time `json:"lastUpdate"`
}
