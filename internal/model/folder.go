package model

import "time"

// Folder groups PDFs and snips. ID is assigned on upload and never changes;
// Name is only unique among folders that currently exist.
type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	FileCount  int       `json:"fileCount"`
	UploadDate time.Time `json:"uploadDate"`
}

// PDF is a document stored inside a folder.
type PDF struct {
	ID          string    `json:"-"`
	FolderID    string    `json:"-"`
	FolderName  string    `json:"-"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	StoragePath string    `json:"-"`
	Size        int64     `json:"-"`
	CreatedAt   time.Time `json:"-"`
}
