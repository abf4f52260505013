package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestNewSandboxedVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "string library", code: `x = string.format("%s-%d", "cask", 1)`},
		{name: "table library", code: `t = {1, 2}; table.insert(t, 3); n = #t`},
		{name: "math library", code: `x = math.max(1, 5, 3)`},
		{name: "conversions", code: `x = tonumber("30") + #tostring(12)`},
		{name: "os removed", code: `os.execute("true")`, wantErr: "attempt to index"},
		{name: "io removed", code: `io.open("/etc/passwd")`, wantErr: "attempt to index"},
		{name: "debug removed", code: `debug.getinfo(1)`, wantErr: "attempt to index"},
		{name: "require removed", code: `require("socket")`, wantErr: "attempt to call"},
		{name: "dofile removed", code: `dofile("/tmp/x.lua")`, wantErr: "attempt to call"},
		{name: "loadstring removed", code: `loadstring("return 1")`, wantErr: "attempt to call"},
		{name: "load removed", code: `load("return 1")`, wantErr: "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DoString(%q) error = %v", tt.code, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error containing %q", tt.code, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestNewSandboxedVM_GlobalsCleared(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range sandboxedGlobals {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("global %q = %v, want nil", name, v.Type())
		}
	}
	if v := L.GetGlobal("string"); v.Type() != lua.LTTable {
		t.Errorf("global string = %v, want table", v.Type())
	}
}
