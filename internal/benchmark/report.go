package benchmark

import (
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
)

// BackendReport holds every question result for one backend.
type BackendReport struct {
	Backend      entity.Backend `json:"backend"`
	Driver       string         `json:"driver"`
	LoadDuration time.Duration  `json:"loadDuration,omitempty"`
	Results      []Result       `json:"results"`
	Error        string         `json:"error,omitempty"`
}

// Report is the outcome of one benchmark session.
type Report struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Seed        int64           `json:"seed"`
	Counts      entity.Counts   `json:"counts"`
	Runs        int             `json:"runs"`
	Params      query.Params    `json:"params"`
	Backends    []BackendReport `json:"backends"`
}

// Result returns the result for question q, if present.
func (b *BackendReport) Result(q query.Question) (Result, bool) {
	for _, r := range b.Results {
		if r.Question == q {
			return r, true
		}
	}

	return Result{}, false
}

// Backend returns the section for backend b, if present.
func (r *Report) Backend(b entity.Backend) (*BackendReport, bool) {
	for i := range r.Backends {
		if r.Backends[i].Backend == b {
			return &r.Backends[i], true
		}
	}

	return nil, false
}
