package workspace

import "errors"

// User-visible failures. None of them leaves the workspace unusable.
var (
	ErrNoConflictingFiles = errors.New("no conflicting files found")
	ErrGraphBuild         = errors.New("failed to build relationship graph")
	ErrNoSuggestion       = errors.New("no suggestion available")
	ErrNoRelated          = errors.New("no related conflicts found")
	ErrNotScanned         = errors.New("workspace has not been scanned")
	ErrUnknownConflict    = errors.New("unknown conflict")
)

// FileError records a file that could not be read or parsed during a scan.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Message
}

func (e *FileError) Unwrap() error { return e.Err }

func newFileError(path string, err error) FileError {
	return FileError{Path: path, Message: err.Error(), Err: err}
}
