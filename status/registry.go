// Package status publishes runtime metrics through lock-free atomics
package status

import (
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade
// Writers cache pointers during init; per-frame updates write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
	Labels *MetricMap[atomic.Pointer[string]]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
		Labels: NewMetricMap[atomic.Pointer[string]](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Labels.Count()
}

// Dump renders every metric as a string keyed by name, for diagnostics
func (r *Registry) Dump() map[string]string {
	out := make(map[string]string, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		out[k] = strconv.FormatInt(v.Load(), 10)
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		out[k] = strconv.FormatFloat(v.Get(), 'f', 2, 64)
	})
	r.Labels.Range(func(k string, v *atomic.Pointer[string]) {
		if p := v.Load(); p != nil {
			out[k] = *p
		} else {
			out[k] = ""
		}
	})
	return out
}
