// Package errors provides structured error types for the sighound library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the subject path (device series, symbol
// name) and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfigure, errors.KindOutOfRange).
//		Path("sp", "decimation").
//		Detail("decimation must be a power of two").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseDevice, "export", "sp-open-device")
//	err := errors.Device(errors.PhaseStream, "sp-get-iq", status)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
