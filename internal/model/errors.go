package model

import "errors"

// ErrNotFound is returned by stores when a referenced entity does not
// exist. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
