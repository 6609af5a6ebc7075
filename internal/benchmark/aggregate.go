package benchmark

import (
	"time"

	"techmarket/internal/domain/query"
)

// Result is the summary of one question on one backend.
type Result struct {
	Question       query.Question `json:"question"`
	Title          string         `json:"title"`
	Runs           int            `json:"runs"`
	Mean           time.Duration  `json:"-"`
	MeanMillis     float64        `json:"meanMillis"`
	SamplesMillis  []float64      `json:"samplesMillis"`
	RowCount       int            `json:"rowCount"`
	Representative query.Row      `json:"representative,omitempty"`
	Exact          bool           `json:"exact"`
	ClientSide     bool           `json:"clientSide"`
	Error          string         `json:"error,omitempty"`
}

// Mean is the arithmetic mean of the samples, without trimming.
func Mean(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range samples {
		total += s
	}

	return total / time.Duration(len(samples))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Aggregate reduces a measurement to its mean latency and one representative row.
func Aggregate(m *Measurement) Result {
	res := Result{
		Question:      m.Question,
		Title:         m.Question.Title(),
		Runs:          len(m.Samples),
		SamplesMillis: make([]float64, 0, len(m.Samples)),
		RowCount:      len(m.Rows),
		Exact:         m.Exact,
		ClientSide:    m.ClientSide,
	}

	var total float64
	for _, s := range m.Samples {
		ms := millis(s)
		res.SamplesMillis = append(res.SamplesMillis, ms)
		total += ms
	}
	res.Mean = Mean(m.Samples)
	if n := len(m.Samples); n > 0 {
		res.MeanMillis = total / float64(n)
	}
	if len(m.Rows) > 0 {
		res.Representative = m.Rows[0]
	}
	if m.Err != nil {
		res.Error = m.Err.Error()
	}

	return res
}
