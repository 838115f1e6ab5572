package models

import (
	"errors"
	"time"
)

// ErrUploadNotFound is returned for unknown or expired uploads.
var ErrUploadNotFound = errors.New("upload not found")

// Upload is a file held for one user session so the date can be changed without re-uploading.
type Upload struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	Data      []byte    `json:"data"`
	Dates     []string  `json:"dates"`
	Rows      int       `json:"rows"`
	Warnings  []Warning `json:"warnings,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
