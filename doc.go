// Package sighound provides IQ-streaming blocks for Signal Hound spectrum
// analyzers and vector signal generators, backed by an optional native
// extension.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	sighound/            Root package with the frame-level Source/Sink interfaces
//	├── blocks/          SP/SM/BB source and VSG sink sync blocks
//	├── device/          Analyzer and Generator abstractions, native and simulated backends
//	├── extension/       Capability-probing loader for the native extension
//	├── engine/          Low-level wazero integration
//	├── config/          YAML device profiles with environment overrides
//	├── iq/              complex64 IQ frame helpers
//	└── errors/          Structured error types
//
// # The Native Extension
//
// Device I/O lives in an optional compiled extension named
// "sighound_native.wasm", probed once per process by package extension.
// Absence is the expected pure-Go configuration: the package loads with zero
// forwarded symbols and the simulated device backend remains usable. A
// present but broken extension fails loudly.
//
// # Quick Start
//
// Stream IQ from an SP series analyzer:
//
//	ext, err := extension.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev, err := device.OpenAnalyzer(ctx, ext, device.SP)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := blocks.NewSPSeries(dev, cfg, false)
//	defer src.Close(ctx)
//
//	frame := make([]complex64, 4096)
//	for {
//	    if _, err := src.Work(ctx, frame); err != nil {
//	        log.Fatal(err)
//	    }
//	    // process frame
//	}
package sighound
