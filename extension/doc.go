// Package extension loads the optional compiled device extension.
//
// The extension is a WebAssembly binary discovered by the fixed conventional
// name "sighound_native.wasm". Loading follows a capability-probing contract:
//
//   - If no extension binary exists on the search path, Load succeeds with an
//     absent extension and zero forwarded symbols. Pure-Go deployments are
//     expected to run this way.
//   - If a binary exists, every function it exports is forwarded into the
//     process-wide symbol set, whatever those functions are. The loader does
//     not interpret the symbol set; package device binds the ones it knows.
//   - Any failure other than absence (unreadable file, invalid binary, a trap
//     in the module's start function) propagates to the caller.
//
// The probe runs once per process. Repeated Load calls return the identical
// outcome and the symbol set never changes after the first load.
//
// An extension may ship a companion "sighound_native.wit" describing its
// exported functions; when present it is parsed so callers can inspect typed
// signatures. Its absence is never an error.
package extension
