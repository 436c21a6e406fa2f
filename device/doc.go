// Package device abstracts Signal Hound hardware behind Analyzer and
// Generator interfaces.
//
// Real hardware is reached through the loaded native extension: each device
// family binds a fixed set of forwarded symbols ("sp-open-device",
// "sp-get-iq", ...) and moves IQ frames through the extension's linear
// memory. A pure-Go simulated backend stands in when no extension is present.
//
// Vendor status codes keep their sign convention: zero is success, positive
// statuses are warnings (logged, never fatal), negative statuses are errors
// and are returned to the caller.
package device
