package sighound

import "context"

// SampleSource produces frames of consecutive complex64 IQ samples.
type SampleSource interface {
	// Work fills out and returns the number of samples produced.
	Work(ctx context.Context, out []complex64) (int, error)
}

// SampleSink consumes frames of complex64 IQ samples.
type SampleSink interface {
	Work(ctx context.Context, in []complex64) error
}
