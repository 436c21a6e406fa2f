package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/signalhound/sighound/blocks"
	"github.com/signalhound/sighound/config"
	"github.com/signalhound/sighound/device"
	"github.com/signalhound/sighound/engine"
	"github.com/signalhound/sighound/extension"
	"github.com/signalhound/sighound/iq"
)

func main() {
	var (
		extPath     = flag.String("ext", "", "Path to the native extension (default: probe for "+extension.Name+")")
		profilePath = flag.String("profile", "", "Device profile YAML file")
		series      = flag.String("series", "", "Analyzer series: sp, sm or bb (overrides profile)")
		sim         = flag.Bool("sim", false, "Force the simulated device backend")
		list        = flag.Bool("list", false, "List the extension's forwarded symbols and exit")
		frames      = flag.Int("n", 10, "Number of frames to read")
		frameLen    = flag.Int("frame", 4096, "Samples per frame")
		interactive = flag.Bool("i", false, "Interactive monitor TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			engine.SetLogger(logger)
			device.SetLogger(logger)
			blocks.SetLogger(logger)
		}
	}

	if err := run(*extPath, *profilePath, *series, *sim, *list, *frames, *frameLen, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(extPath, profilePath, series string, sim, list bool, frames, frameLen int, interactive bool) error {
	ctx := context.Background()

	var ext *extension.Extension
	var err error
	if extPath != "" {
		ext, err = extension.Open(ctx, extPath)
	} else {
		ext, err = extension.Load(ctx)
	}
	if err != nil {
		return err
	}

	if list {
		return listSymbols(ext)
	}

	prof, err := config.Load(profilePath)
	if err != nil {
		return err
	}
	if series != "" {
		prof.Series = series
		if err := prof.Validate(); err != nil {
			return err
		}
	}

	var dev device.Analyzer
	if sim || ext.Absent() {
		if !sim {
			fmt.Println("native extension absent; using simulated device")
		}
		dev = device.NewSimAnalyzer(1001, 25e3)
	} else {
		if dev, err = device.OpenAnalyzer(ctx, ext, prof.DeviceSeries()); err != nil {
			return err
		}
	}

	src, err := blocks.NewSource(prof.DeviceSeries(), dev, prof.IQConfig(), prof.Purge)
	if err != nil {
		return err
	}
	defer src.Close(ctx)

	if interactive {
		return runInteractive(src)
	}

	frame := make([]complex64, frameLen)
	for i := 0; i < frames; i++ {
		n, err := src.Work(ctx, frame)
		if err != nil {
			return err
		}
		if i == 0 {
			p := src.Params()
			fmt.Printf("%s: sample rate %.0f Hz, bandwidth %.0f Hz\n", src.Name(), p.SampleRate, p.Bandwidth)
		}
		fmt.Printf("frame %3d: %5d samples  power %7.2f dBFS  peak %.3f\n",
			i, n, iq.PowerDBFS(frame[:n]), iq.Peak(frame[:n]))
	}
	return nil
}

func listSymbols(ext *extension.Extension) error {
	if ext.Absent() {
		fmt.Printf("native extension absent (no %s on the search path)\n", extension.Name)
		return nil
	}

	syms := ext.Symbols()
	fmt.Printf("Extension: %s\n", ext.Path())
	fmt.Printf("Symbols: %d\n", len(syms))
	for _, def := range syms {
		line := "  " + def.String()
		if params, results, err := ext.FunctionTypes(def.Name); err == nil {
			line += "   // " + renderSignature(params, results)
		}
		fmt.Println(line)
	}
	return nil
}

func renderSignature(params, results []wit.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = extension.TypeString(p)
	}
	sig := "(" + strings.Join(parts, ", ") + ")"
	if len(results) > 0 {
		sig += " -> " + extension.TypeString(results[0])
	}
	return sig
}
