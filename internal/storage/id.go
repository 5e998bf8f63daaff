package storage

import (
	"github.com/google/uuid"
	"github.com/teris-io/shortid"
)

// NewID returns a short url-safe id for teams, files and shared files.
func NewID() string {
	id, err := shortid.Generate()
	if err != nil {
		logger.Warn().Err(err).Msg("shortid failed, fallback to uuid")
		return uuid.NewString()
	}
	return id
}

// NewToken returns an unguessable invitation token.
func NewToken() string {
	return uuid.NewString()
}
