package file

import "errors"

// ErrFileNotFound signals that no stored file matches the request.
var ErrFileNotFound = errors.New("file not found")
