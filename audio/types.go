// Package audio captures the live signal and derives the analytic pair and loudness for the scope
package audio

import (
	"github.com/pkg/errors"
)

// Source exposes the most recent captured mono samples without blocking
type Source interface {
	// Latest copies up to len(dst) most recent samples, oldest first, and returns the count
	Latest(dst []float64) int
	// SampleRate returns samples per second
	SampleRate() int
}

// Sentinel errors
var (
	ErrNoSource = errors.New("audio source unavailable")
	ErrClosed   = errors.New("audio tap closed")
)

// DefaultSampleRate is used when a config carries none
const DefaultSampleRate = 48000
