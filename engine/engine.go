package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Engine wraps a wazero runtime hosting extension modules.
type Engine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// New creates a new engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a new engine with custom configuration
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &Engine{runtime: runtime}, nil
}

// Compile validates and compiles a binary module without instantiating it.
func (e *Engine) Compile(ctx context.Context, raw []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}

	debugf("compiled module: %d exported functions", len(compiled.ExportedFunctions()))

	return &Module{engine: e, compiled: compiled}, nil
}

func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled, not yet instantiated extension binary.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// ExportDef describes one exported function of a compiled module.
type ExportDef struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// String renders the definition as "name(i32, f64) -> i32".
func (d ExportDef) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteByte(')')
	if len(d.Results) > 0 {
		b.WriteString(" -> ")
		for i, r := range d.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(api.ValueTypeName(r))
		}
	}
	return b.String()
}

// Exports returns the exported function definitions, sorted by name.
func (m *Module) Exports() []ExportDef {
	defs := m.compiled.ExportedFunctions()
	exports := make([]ExportDef, 0, len(defs))
	for name, def := range defs {
		exports = append(exports, ExportDef{
			Name:    name,
			Params:  def.ParamTypes(),
			Results: def.ResultTypes(),
		})
	}
	sort.Slice(exports, func(i, j int) bool { return exports[i].Name < exports[j].Name })
	return exports
}

// Export returns the definition of a single exported function.
func (m *Module) Export(name string) (ExportDef, bool) {
	def, ok := m.compiled.ExportedFunctions()[name]
	if !ok {
		return ExportDef{}, false
	}
	return ExportDef{Name: name, Params: def.ParamTypes(), Results: def.ResultTypes()}, true
}

// Instantiate creates an instance, running the module's start function.
func (m *Module) Instantiate(ctx context.Context, name string) (*Instance, error) {
	instance, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	inst := &Instance{module: m, instance: instance}

	// Cache the allocator if the module exports one.
	for _, allocName := range []string{"alloc", "malloc"} {
		if fn := instance.ExportedFunction(allocName); fn != nil {
			inst.allocFn = fn
			break
		}
	}

	return inst, nil
}

// Instance is an instantiated extension module.
type Instance struct {
	module   *Module
	instance api.Module
	allocFn  api.Function
}

// Call invokes an exported function with raw stack values.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := i.instance.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("function %q not exported", name)
	}
	return fn.Call(ctx, args...)
}

// ExportedFunction returns the raw wazero function, or nil if not exported.
func (i *Instance) ExportedFunction(name string) api.Function {
	return i.instance.ExportedFunction(name)
}

// Alloc reserves size bytes in the instance's linear memory using its
// exported allocator.
func (i *Instance) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if i.allocFn == nil {
		return 0, fmt.Errorf("module exports no allocator")
	}
	results, err := i.allocFn.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("alloc %d bytes: %w", size, err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("allocator returned %d values", len(results))
	}
	return uint32(results[0]), nil
}

// MemoryRead copies length bytes out of the instance's linear memory.
func (i *Instance) MemoryRead(offset, length uint32) ([]byte, error) {
	mem := i.instance.Memory()
	if mem == nil {
		return nil, fmt.Errorf("module exports no memory")
	}
	data, ok := mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read [%d:%d] out of range", offset, offset+length)
	}
	// The returned slice aliases WASM memory; copy so callers own the bytes.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// MemoryWrite copies data into the instance's linear memory.
func (i *Instance) MemoryWrite(offset uint32, data []byte) error {
	mem := i.instance.Memory()
	if mem == nil {
		return fmt.Errorf("module exports no memory")
	}
	if ok := mem.Write(offset, data); !ok {
		return fmt.Errorf("memory write [%d:%d] out of range", offset, offset+uint32(len(data)))
	}
	return nil
}

func (i *Instance) Close(ctx context.Context) error {
	return i.instance.Close(ctx)
}
