// Package engine provides the low-level wazero integration used to run the
// optional native extension.
//
// An Engine owns a wazero runtime. Compiling a binary yields a Module, which
// lists the exported function definitions without instantiating anything.
// Instantiating a Module runs its start function (a trap there is a load
// failure, not an absence) and yields an Instance for scalar-typed calls and
// linear-memory IQ transfer.
//
// Higher layers should not use this package directly; package extension wraps
// it with the capability-probing load contract.
package engine
