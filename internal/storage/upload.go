package storage

import "io"

// Upload is an incoming file as the HTTP layer hands it to a service.
type Upload struct {
	Filename string
	Content  io.Reader
}
