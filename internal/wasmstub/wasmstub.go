// Package wasmstub builds minimal core WebAssembly binaries for tests.
//
// Fixtures are encoded by hand so tests need no wasm toolchain: each export
// becomes a function whose body returns constants matching its result types.
package wasmstub

// Value type encodings from the core wasm spec.
const (
	I32 byte = 0x7f
	I64 byte = 0x7e
	F32 byte = 0x7d
	F64 byte = 0x7c
)

// Export describes one exported function of a stub module.
type Export struct {
	Name    string
	Params  []byte
	Results []byte
	// Const is returned by every i32 result of the function.
	Const int32
}

type build struct {
	memory bool
	trap   bool
}

// Option adjusts stub module construction.
type Option func(*build)

// WithMemory adds a one-page linear memory exported as "memory".
func WithMemory() Option {
	return func(b *build) { b.memory = true }
}

// WithTrapOnStart adds a start function that executes unreachable, so
// instantiation fails even though the binary is valid.
func WithTrapOnStart() Option {
	return func(b *build) { b.trap = true }
}

// Broken returns bytes that are not a valid wasm binary (bad version field).
func Broken() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00}
}

// Module encodes a stub module with the given exports.
func Module(exports []Export, opts ...Option) []byte {
	var b build
	for _, opt := range opts {
		opt(&b)
	}

	nfuncs := len(exports)
	if b.trap {
		nfuncs++
	}

	// Type section: one function type per function, in index order.
	var types []byte
	types = append(types, uleb(uint32(nfuncs))...)
	for _, ex := range exports {
		types = append(types, 0x60)
		types = append(types, uleb(uint32(len(ex.Params)))...)
		types = append(types, ex.Params...)
		types = append(types, uleb(uint32(len(ex.Results)))...)
		types = append(types, ex.Results...)
	}
	if b.trap {
		types = append(types, 0x60, 0x00, 0x00)
	}

	// Function section: func i uses type i.
	var funcs []byte
	funcs = append(funcs, uleb(uint32(nfuncs))...)
	for i := 0; i < nfuncs; i++ {
		funcs = append(funcs, uleb(uint32(i))...)
	}

	// Export section: functions by name, plus the memory when present.
	nexports := len(exports)
	if b.memory {
		nexports++
	}
	var exps []byte
	exps = append(exps, uleb(uint32(nexports))...)
	for i, ex := range exports {
		exps = append(exps, uleb(uint32(len(ex.Name)))...)
		exps = append(exps, ex.Name...)
		exps = append(exps, 0x00) // func kind
		exps = append(exps, uleb(uint32(i))...)
	}
	if b.memory {
		exps = append(exps, uleb(uint32(len("memory")))...)
		exps = append(exps, "memory"...)
		exps = append(exps, 0x02, 0x00)
	}

	// Code section.
	var code []byte
	code = append(code, uleb(uint32(nfuncs))...)
	for _, ex := range exports {
		body := bodyFor(ex)
		code = append(code, uleb(uint32(len(body)))...)
		code = append(code, body...)
	}
	if b.trap {
		body := []byte{0x00, 0x00, 0x0b} // no locals, unreachable, end
		code = append(code, uleb(uint32(len(body)))...)
		code = append(code, body...)
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if nfuncs > 0 {
		out = append(out, section(0x01, types)...)
		out = append(out, section(0x03, funcs)...)
	}
	if b.memory {
		out = append(out, section(0x05, []byte{0x01, 0x00, 0x01})...)
	}
	if nexports > 0 {
		out = append(out, section(0x07, exps)...)
	}
	if b.trap {
		out = append(out, section(0x08, uleb(uint32(nfuncs-1)))...)
	}
	if nfuncs > 0 {
		out = append(out, section(0x0a, code)...)
	}
	return out
}

// bodyFor emits a function body pushing one constant per result type.
func bodyFor(ex Export) []byte {
	body := []byte{0x00} // no locals
	for _, r := range ex.Results {
		switch r {
		case I32:
			body = append(body, 0x41)
			body = append(body, sleb32(ex.Const)...)
		case I64:
			body = append(body, 0x42, 0x00)
		case F32:
			body = append(body, 0x43, 0x00, 0x00, 0x00, 0x00)
		case F64:
			body = append(body, 0x44, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
		}
	}
	return append(body, 0x0b)
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb32(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
