package entity

import (
	"strings"

	"techmarket/internal/errors"
)

// Backend is the storage model a store belongs to.
type Backend string

const (
	BackendWideColumn Backend = "wide_column"
	BackendDocument   Backend = "document"
	BackendRelational Backend = "relational"
)

// Backends lists every backend in report order.
func Backends() []Backend {
	return []Backend{BackendWideColumn, BackendDocument, BackendRelational}
}

// String returns the string representation of the Backend.
func (b Backend) String() string {
	return string(b)
}

// IsValid checks if the Backend is a known value.
func (b Backend) IsValid() bool {
	switch b {
	case BackendWideColumn, BackendDocument, BackendRelational:
		return true
	default:
		return false
	}
}

// ParseBackend accepts the canonical names plus a few common aliases.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wide_column", "widecolumn", "wide-column", "cassandra":
		return BackendWideColumn, nil
	case "document", "mongo", "mongodb":
		return BackendDocument, nil
	case "relational", "postgres", "postgresql", "sqlite":
		return BackendRelational, nil
	default:
		return "", errors.Errorf("unknown backend %q", s)
	}
}

// Capabilities describes what a backend can evaluate server-side.
// Plan shapes are chosen from these flags rather than from the backend name.
type Capabilities struct {
	ServerSideJoin        bool
	ServerSideAggregation bool
}

var capabilities = map[Backend]Capabilities{
	BackendWideColumn: {},
	BackendDocument:   {ServerSideAggregation: true},
	BackendRelational: {ServerSideJoin: true, ServerSideAggregation: true},
}

// Capabilities returns the declared capabilities of the backend.
func (b Backend) Capabilities() Capabilities {
	return capabilities[b]
}
