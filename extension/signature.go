package extension

import (
	stderrors "errors"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/signalhound/sighound/errors"
)

// Signatures holds typed signatures for forwarded symbols, parsed from the
// extension's companion descriptor.
type Signatures struct {
	funcs map[string]*funcSignature
}

type funcSignature struct {
	params  []wit.Type
	results []wit.Type
}

// companionPath maps an extension binary path to its signature descriptor.
func companionPath(binPath string) string {
	return strings.TrimSuffix(binPath, ".wasm") + ".wit"
}

// loadSignatures reads and parses the companion descriptor. A missing file
// yields (nil, nil): signatures are optional.
func loadSignatures(path string) (*Signatures, error) {
	raw, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.ParseFailed("signature descriptor", err)
	}
	return ParseSignatures(string(raw))
}

// funcPattern matches lines of the form:
//
//	[export] name: func(param: type, ...) -> result;
var funcPattern = regexp.MustCompile(`(?:export\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// ParseSignatures extracts function signatures from descriptor text.
func ParseSignatures(text string) (*Signatures, error) {
	funcs := make(map[string]*funcSignature)

	for _, match := range funcPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		paramsStr := strings.TrimSpace(match[2])
		resultStr := ""
		if len(match) > 3 {
			resultStr = strings.TrimSpace(match[3])
		}

		sig := &funcSignature{}

		if paramsStr != "" {
			for _, p := range strings.Split(paramsStr, ",") {
				typStr := p
				if idx := strings.LastIndex(p, ":"); idx != -1 {
					typStr = p[idx+1:]
				}
				t, err := wit.ParseType(strings.TrimSpace(typStr))
				if err != nil {
					return nil, errors.ParseFailed("param type "+strings.TrimSpace(typStr), err)
				}
				sig.params = append(sig.params, t)
			}
		}

		if resultStr != "" && resultStr != "()" {
			t, err := wit.ParseType(resultStr)
			if err != nil {
				return nil, errors.ParseFailed("result type "+resultStr, err)
			}
			sig.results = []wit.Type{t}
		}

		funcs[name] = sig
	}

	if len(funcs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in signature descriptor")
	}

	return &Signatures{funcs: funcs}, nil
}

// Lookup returns the typed signature of one symbol.
func (s *Signatures) Lookup(name string) (params, results []wit.Type, ok bool) {
	if s == nil {
		return nil, nil, false
	}
	sig, ok := s.funcs[name]
	if !ok {
		return nil, nil, false
	}
	return sig.params, sig.results, true
}

// TypeString renders a WIT type for display.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return "unknown"
	}
}
