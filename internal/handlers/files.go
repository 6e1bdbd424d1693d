package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/storage"
)

const (
	fileNotFound   = "File not found"
	forbidden      = "Forbidden"
	unavailableMsg = "file routes unavailable: no base directory configured"
)

// FileStore is the filesystem collaborator behind /files/
type FileStore interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

type Files struct {
	store FileStore
}

func NewFiles(store FileStore) *Files {
	return &Files{store: store}
}

// Get serves GET /files/<name>
func (f *Files) Get(req *request.Request) *response.Response {
	name, ok := fileName(req.Path)
	if !ok {
		return response.Empty(response.StatusBadRequest)
	}
	if name == "" {
		return response.Text(response.StatusNotFound, fileNotFound)
	}

	data, err := f.store.ReadFile(name)
	if err != nil {
		return failure(err, "read", name)
	}
	return response.Data(response.StatusOK, data)
}

// Put serves POST /files/<name>: the body replaces the file's contents
func (f *Files) Put(req *request.Request) *response.Response {
	name, ok := fileName(req.Path)
	if !ok {
		return response.Empty(response.StatusBadRequest)
	}
	if name == "" {
		return response.Text(response.StatusNotFound, fileNotFound)
	}

	if err := f.store.WriteFile(name, req.Body); err != nil {
		return failure(err, "write to", name)
	}
	return response.Empty(response.StatusCreated)
}

// Unavailable answers file routes when no base directory was configured
func Unavailable(*request.Request) *response.Response {
	return response.Text(response.StatusServiceUnavailable, unavailableMsg)
}

func fileName(path string) (string, bool) {
	if !strings.HasPrefix(path, FilesPrefix) {
		return "", false
	}
	return path[len(FilesPrefix):], true
}

func failure(err error, op, name string) *response.Response {
	switch {
	case errors.Is(err, storage.ErrOutsideRoot):
		return response.Text(response.StatusForbidden, forbidden)
	case errors.Is(err, storage.ErrNotFound):
		return response.Text(response.StatusNotFound, fileNotFound)
	}

	path := name
	var pe *storage.PathError
	if errors.As(err, &pe) {
		path = pe.Path
	}
	msg := fmt.Sprintf("Encountered error while trying to %s file (%s): %v", op, path, err)
	return response.Text(response.StatusInternalServerError, msg)
}
