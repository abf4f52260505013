package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/cask/internal/platform"
)

// MaxConfigSize bounds config.lua so a runaway file cannot stall startup.
const MaxConfigSize = 1 << 20

// Parser evaluates config.lua files.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser that injects the platform table produced by
// detector. A nil detector leaves "platform" undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Path    string // config file, empty for in-memory code
	Message string // user-friendly message
	Detail  string // technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseFile evaluates the Lua file at path and returns its settings as a
// map keyed like Settings' viper keys.
func (p *Parser) ParseFile(ctx context.Context, path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Path:    path,
			Message: "config file too large",
			Detail:  fmt.Sprintf("%d bytes exceeds limit of %d", len(data), MaxConfigSize),
		}
	}

	values, err := p.ParseString(ctx, string(data))
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return values, nil
}

// ParseString evaluates Lua code from a string.
func (p *Parser) ParseString(ctx context.Context, code string) (map[string]interface{}, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  trimTraceback(err.Error()),
		}
	}

	return extractSettings(L)
}

// extractSettings reads the global "cask" table.
func extractSettings(L *lua.LState) (map[string]interface{}, error) {
	global := L.GetGlobal("cask")
	if global.Type() == lua.LTNil {
		return map[string]interface{}{}, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'cask' value",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	values := make(map[string]interface{})
	var firstErr error
	table.ForEach(func(key, value lua.LValue) {
		if firstErr != nil {
			return
		}
		name := key.String()
		v, err := convertSetting(name, value)
		if err != nil {
			firstErr = err
			return
		}
		if v != nil {
			values[name] = v
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	return values, nil
}

// convertSetting validates the Lua type of one setting. nil values (from
// platform conditionals that did not match) are dropped.
func convertSetting(name string, value lua.LValue) (interface{}, error) {
	if value.Type() == lua.LTNil {
		return nil, nil
	}

	typeErr := func(want string) error {
		return &ParseError{
			Message: fmt.Sprintf("invalid type for cask.%s", name),
			Detail:  fmt.Sprintf("expected %s, got %s", want, value.Type()),
		}
	}

	switch name {
	case KeyRegistry, KeyFormulaDir, KeyLogLevel:
		if value.Type() != lua.LTString {
			return nil, typeErr("string")
		}
		return value.String(), nil
	case KeyRetries:
		if value.Type() != lua.LTNumber {
			return nil, typeErr("number")
		}
		return int(lua.LVAsNumber(value)), nil
	case KeyTimeout:
		switch value.Type() {
		case lua.LTNumber:
			return fmt.Sprintf("%ds", int(lua.LVAsNumber(value))), nil
		case lua.LTString:
			return value.String(), nil
		default:
			return nil, typeErr("number of seconds or duration string")
		}
	default:
		return nil, &ParseError{
			Message: "unknown setting",
			Detail:  fmt.Sprintf("cask.%s is not a recognised key", name),
		}
	}
}

func trimTraceback(detail string) string {
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		return strings.TrimSpace(detail[:idx])
	}
	return detail
}
