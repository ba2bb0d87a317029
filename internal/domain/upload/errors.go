package upload

import "errors"

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrCSVRequired    = errors.New("csv file is required")
)
