package extension

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/signalhound/sighound/engine"
	"github.com/signalhound/sighound/errors"
)

const (
	// Suffix is the conventional file-name suffix of a native extension binary.
	Suffix = "_native.wasm"

	// Name is the conventional binary name probed for by this package.
	Name = "sighound" + Suffix

	// EnvPath overrides discovery with an explicit extension path.
	EnvPath = "SIGHOUND_EXTENSION"
)

// Extension is a loaded native extension. A nil *Extension is valid and
// represents the absent extension: lookups miss and calls fail.
type Extension struct {
	path    string
	engine  *engine.Engine
	module  *engine.Module
	inst    *engine.Instance
	symbols map[string]engine.ExportDef
	sigs    *Signatures
}

var (
	loadOnce sync.Once
	loaded   *Extension
	loadErr  error
)

// Load probes for the conventionally named extension once per process.
// Absence is not an error; the same outcome is returned on every call.
func Load(ctx context.Context) (*Extension, error) {
	loadOnce.Do(func() {
		path, ok := Locate()
		if !ok {
			engine.Logger().Debug("native extension absent", zap.String("name", Name))
			return
		}
		loaded, loadErr = Open(ctx, path)
	})
	return loaded, loadErr
}

// Locate resolves the extension path: the EnvPath variable if set, otherwise
// the conventional name next to the executable, then in the working directory.
func Locate() (string, bool) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), Name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	if _, err := os.Stat(Name); err == nil {
		return Name, true
	}
	return "", false
}

// Open loads an extension from an explicit path. A missing file returns
// (nil, nil): absence is the expected pure-Go configuration. Every other
// failure propagates.
func Open(ctx context.Context, path string) (*Extension, error) {
	raw, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Load("read extension", err)
	}

	eng, err := engine.New(ctx)
	if err != nil {
		return nil, errors.Load("create engine", err)
	}

	mod, err := eng.Compile(ctx, raw)
	if err != nil {
		eng.Close(ctx)
		return nil, errors.Load("compile extension", err)
	}

	inst, err := mod.Instantiate(ctx, filepath.Base(path))
	if err != nil {
		eng.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	symbols := make(map[string]engine.ExportDef)
	for _, def := range mod.Exports() {
		symbols[def.Name] = def
	}

	sigs, err := loadSignatures(companionPath(path))
	if err != nil {
		inst.Close(ctx)
		eng.Close(ctx)
		return nil, err
	}

	engine.Logger().Info("native extension loaded",
		zap.String("path", path),
		zap.Int("symbols", len(symbols)))

	return &Extension{
		path:    path,
		engine:  eng,
		module:  mod,
		inst:    inst,
		symbols: symbols,
		sigs:    sigs,
	}, nil
}

// Absent reports whether the extension is missing.
func (e *Extension) Absent() bool {
	return e == nil
}

// Path returns the loaded binary's path, or "" when absent.
func (e *Extension) Path() string {
	if e == nil {
		return ""
	}
	return e.path
}

// Symbols returns every forwarded export, sorted by name.
func (e *Extension) Symbols() []engine.ExportDef {
	if e == nil {
		return nil
	}
	return e.module.Exports()
}

// Lookup resolves one forwarded symbol by name.
func (e *Extension) Lookup(name string) (engine.ExportDef, bool) {
	if e == nil {
		return engine.ExportDef{}, false
	}
	def, ok := e.symbols[name]
	return def, ok
}

// Call invokes a forwarded symbol with raw stack values.
func (e *Extension) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	if e == nil {
		return nil, errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	if _, ok := e.symbols[name]; !ok {
		return nil, errors.NotFound(errors.PhaseDevice, "export", name)
	}
	return e.inst.Call(ctx, name, args...)
}

// Alloc reserves size bytes in the extension's linear memory.
func (e *Extension) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if e == nil {
		return 0, errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	return e.inst.Alloc(ctx, size)
}

// MemoryRead copies bytes out of the extension's linear memory.
func (e *Extension) MemoryRead(offset, length uint32) ([]byte, error) {
	if e == nil {
		return nil, errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	return e.inst.MemoryRead(offset, length)
}

// MemoryWrite copies bytes into the extension's linear memory.
func (e *Extension) MemoryWrite(offset uint32, data []byte) error {
	if e == nil {
		return errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	return e.inst.MemoryWrite(offset, data)
}

// FunctionTypes returns the WIT param and result types of a forwarded symbol,
// when the extension shipped a companion signature descriptor.
func (e *Extension) FunctionTypes(name string) ([]wit.Type, []wit.Type, error) {
	if e == nil || e.sigs == nil {
		return nil, nil, errors.NotFound(errors.PhaseParse, "signature", name)
	}
	params, results, ok := e.sigs.Lookup(name)
	if !ok {
		return nil, nil, errors.NotFound(errors.PhaseParse, "signature", name)
	}
	return params, results, nil
}

// Close releases the extension's runtime resources. The process-wide
// extension returned by Load stays open for the life of the process;
// Close is for explicitly opened extensions.
func (e *Extension) Close(ctx context.Context) error {
	if e == nil {
		return nil
	}
	if err := e.inst.Close(ctx); err != nil {
		return err
	}
	return e.engine.Close(ctx)
}
