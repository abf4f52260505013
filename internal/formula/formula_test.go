package formula

import (
	"errors"
	"reflect"
	"testing"
)

const pruneFormula = `[package]
name = "github.com/axetroy/prune"
bin = "prune"
versions = ["0.2.1", "0.2.0"]
description = "Prune your file system"
repository = "https://github.com/axetroy/prune"
authors = ["Axetroy"]

[linux]
x86_64 = "https://example.com/v{version}/prune_linux_amd64.tar.gz"
aarch64 = "https://example.com/v{version}/prune_linux_arm64.tgz"

[windows]
x86_64 = "https://example.com/v{version}/prune_windows_amd64.zip"

[darwin.aarch64]
url = "https://example.com/v{version}/prune_darwin_arm64.bin?raw=1"
ext = ".zip"
checksum = "abc123"
`

func mustParse(t *testing.T, doc string) *Formula {
	t.Helper()
	f, err := Parse([]byte(doc), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f
}

func TestParse(t *testing.T) {
	f := mustParse(t, pruneFormula)

	if f.Package.Name != "github.com/axetroy/prune" || f.Package.Bin != "prune" {
		t.Errorf("Package = %+v", f.Package)
	}
	if !reflect.DeepEqual(f.Package.Versions, []string{"0.2.1", "0.2.0"}) {
		t.Errorf("Versions = %v", f.Package.Versions)
	}
	if f.Raw() != pruneFormula {
		t.Error("Raw() does not return the verbatim document")
	}
	if f.Origin() != "test" {
		t.Errorf("Origin() = %q", f.Origin())
	}

	want := []string{"darwin/aarch64", "linux/aarch64", "linux/x86_64", "windows/x86_64"}
	if got := f.Platforms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Platforms() = %v, want %v", got, want)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `[package`},
		{name: "missing name", doc: "[package]\nbin = \"x\"\n"},
		{name: "missing bin", doc: "[package]\nname = \"x\"\n"},
		{name: "bin with separator", doc: "[package]\nname = \"x\"\nbin = \"../x\"\n"},
		{name: "name escapes root", doc: "[package]\nname = \"../../escaped\"\nbin = \"x\"\n"},
		{name: "absolute name", doc: "[package]\nname = \"/etc/x\"\nbin = \"x\"\n"},
		{name: "name with backslash", doc: "[package]\nname = \"a\\\\b\"\nbin = \"x\"\n"},
		{name: "version with slash", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversions = [\"../../outside\"]\n"},
		{name: "version with backslash", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversions = [\"1.0\\\\..\"]\n"},
		{name: "version dot dot", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversions = [\"..\"]\n"},
		{name: "version dot", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversions = [\".\"]\n"},
		{name: "declared version with slash", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversion = \"a/b\"\nversions = [\"a/b\"]\n"},
		{name: "empty version", doc: "[package]\nname = \"x\"\nbin = \"x\"\nversions = [\"\"]\n"},
		{name: "os not a table", doc: "linux = 1\n[package]\nname = \"x\"\nbin = \"x\"\n"},
		{name: "arch wrong type", doc: "[package]\nname = \"x\"\nbin = \"x\"\n[linux]\nx86_64 = 3\n"},
		{name: "table without url", doc: "[package]\nname = \"x\"\nbin = \"x\"\n[linux.x86_64]\next = \"zip\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "test")
			var invalid *InvalidFormulaError
			if !errors.As(err, &invalid) {
				t.Errorf("Parse() error = %v, want *InvalidFormulaError", err)
			}
		})
	}
}

func TestParse_IgnoresInstallRecordSection(t *testing.T) {
	doc := "# generated\n[cask]\nname = \"x\"\nversion = \"1.0.0\"\n\n[package]\nname = \"x\"\nbin = \"x\"\n"
	f := mustParse(t, doc)
	if len(f.Platforms()) != 0 {
		t.Errorf("Platforms() = %v, want none", f.Platforms())
	}
}

func TestSelectVersion(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		declared string
		explicit string
		want     string
		wantErr  interface{}
	}{
		{name: "explicit wins", versions: []string{"2.0", "1.0"}, declared: "2.0", explicit: "1.0", want: "1.0"},
		{name: "declared default", versions: []string{"2.0", "1.0"}, declared: "1.0", want: "1.0"},
		{name: "first listed", versions: []string{"2.0", "1.0"}, want: "2.0"},
		{name: "explicit not listed", versions: []string{"2.0"}, explicit: "3.0", wantErr: &VersionNotFoundError{}},
		{name: "declared not listed", versions: []string{"2.0"}, declared: "9.9", wantErr: &VersionNotFoundError{}},
		{name: "explicit with empty list", explicit: "1.0", wantErr: &VersionNotFoundError{}},
		{name: "nothing available", wantErr: &NoVersionAvailableError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Formula{Package: Package{Name: "pkg", Bin: "pkg", Versions: tt.versions, Version: tt.declared}}
			got, err := f.SelectVersion(tt.explicit)

			switch tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("SelectVersion() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("SelectVersion() = %q, want %q", got, tt.want)
				}
			case *VersionNotFoundError:
				var vnf *VersionNotFoundError
				if !errors.As(err, &vnf) {
					t.Fatalf("SelectVersion() error = %v, want *VersionNotFoundError", err)
				}
				if vnf.Package != "pkg" {
					t.Errorf("VersionNotFoundError.Package = %q", vnf.Package)
				}
			case *NoVersionAvailableError:
				var nva *NoVersionAvailableError
				if !errors.As(err, &nva) {
					t.Fatalf("SelectVersion() error = %v, want *NoVersionAvailableError", err)
				}
			}
		})
	}
}

func TestDownloadTarget(t *testing.T) {
	f := mustParse(t, pruneFormula)

	tests := []struct {
		name string
		os   string
		arch string
		want DownloadTarget
	}{
		{
			name: "rust arch name",
			os:   "linux",
			arch: "amd64",
			want: DownloadTarget{URL: "https://example.com/v0.2.0/prune_linux_amd64.tar.gz", Ext: "tar.gz"},
		},
		{
			name: "tgz inferred as tar.gz",
			os:   "linux",
			arch: "arm64",
			want: DownloadTarget{URL: "https://example.com/v0.2.0/prune_linux_arm64.tgz", Ext: "tar.gz"},
		},
		{
			name: "zip inferred",
			os:   "windows",
			arch: "amd64",
			want: DownloadTarget{URL: "https://example.com/v0.2.0/prune_windows_amd64.zip", Ext: "zip"},
		},
		{
			name: "table entry with explicit ext and checksum",
			os:   "darwin",
			arch: "arm64",
			want: DownloadTarget{URL: "https://example.com/v0.2.0/prune_darwin_arm64.bin?raw=1", Ext: "zip", Checksum: "abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.DownloadTarget("0.2.0", tt.os, tt.arch)
			if err != nil {
				t.Fatalf("DownloadTarget() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("DownloadTarget() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestDownloadTarget_Missing(t *testing.T) {
	f := mustParse(t, pruneFormula)

	for _, host := range [][2]string{{"darwin", "amd64"}, {"freebsd", "amd64"}, {"linux", "riscv64"}} {
		_, err := f.DownloadTarget("0.2.0", host[0], host[1])
		var nd *NoDownloadTargetError
		if !errors.As(err, &nd) {
			t.Fatalf("DownloadTarget(%s/%s) error = %v, want *NoDownloadTargetError", host[0], host[1], err)
		}
		if nd.OS != host[0] || nd.Arch != host[1] || nd.Version != "0.2.0" {
			t.Errorf("NoDownloadTargetError = %+v", nd)
		}
	}
}

func TestInferExt(t *testing.T) {
	tests := map[string]string{
		"https://x/a.tar.gz":      "tar.gz",
		"https://x/a.TGZ":         "tar.gz",
		"https://x/a.tar":         "tar",
		"https://x/a.zip?dl=1":    "zip",
		"https://x/a.tar.xz":      "tar.gz",
		"https://x/download#frag": "tar.gz",
	}
	for url, want := range tests {
		if got := inferExt(url); got != want {
			t.Errorf("inferExt(%q) = %q, want %q", url, got, want)
		}
	}
}
