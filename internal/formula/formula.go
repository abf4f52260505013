// Package formula models package formulas: parsing Cask.toml documents,
// choosing a version and resolving the download for a platform.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the formula document inside a formula repository.
const FileName = "Cask.toml"

// VersionPlaceholder is replaced in download URLs.
const VersionPlaceholder = "{version}"

// Package is the [package] section of a formula.
type Package struct {
	Name        string   `toml:"name" json:"name" yaml:"name"`
	Bin         string   `toml:"bin" json:"bin" yaml:"bin"`
	Versions    []string `toml:"versions" json:"versions" yaml:"versions"`
	Version     string   `toml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
	Description string   `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Repository  string   `toml:"repository,omitempty" json:"repository,omitempty" yaml:"repository,omitempty"`
	Homepage    string   `toml:"homepage,omitempty" json:"homepage,omitempty" yaml:"homepage,omitempty"`
	License     string   `toml:"license,omitempty" json:"license,omitempty" yaml:"license,omitempty"`
	Authors     []string `toml:"authors,omitempty" json:"authors,omitempty" yaml:"authors,omitempty"`
	Keywords    []string `toml:"keywords,omitempty" json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// DownloadTarget is the artifact to fetch for one version on one platform.
type DownloadTarget struct {
	URL      string // with {version} substituted
	Ext      string // "tar.gz", "tar" or "zip"
	Checksum string // expected SHA-256 hex digest, empty when not published
}

// target is a download entry before version substitution.
type target struct {
	url      string
	ext      string
	checksum string
}

// Formula is a parsed formula. It is not modified after Parse.
type Formula struct {
	Package Package

	targets map[string]map[string]target // os key -> arch key -> target
	raw     string
	origin  string
}

type document struct {
	Package Package `toml:"package"`
}

// reservedTables are top-level tables that never describe a platform. The
// cask table appears when an install record is parsed as a formula.
var reservedTables = map[string]bool{
	"package": true,
	"cask":    true,
}

// Parse decodes a formula document. origin names where it came from and is
// kept for the install record.
func Parse(data []byte, origin string) (*Formula, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidFormulaError{Origin: origin, Reason: "malformed TOML", Err: err}
	}

	var tables map[string]interface{}
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, &InvalidFormulaError{Origin: origin, Reason: "malformed TOML", Err: err}
	}

	f := &Formula{
		Package: doc.Package,
		targets: make(map[string]map[string]target),
		raw:     string(data),
		origin:  origin,
	}
	if err := f.validatePackage(); err != nil {
		return nil, err
	}

	for osKey, value := range tables {
		if reservedTables[osKey] {
			continue
		}
		archTable, ok := value.(map[string]interface{})
		if !ok {
			return nil, f.invalid(fmt.Sprintf("[%s] must be a table of architectures", osKey))
		}
		arches := make(map[string]target, len(archTable))
		for archKey, entry := range archTable {
			t, err := f.parseTarget(osKey, archKey, entry)
			if err != nil {
				return nil, err
			}
			arches[archKey] = t
		}
		f.targets[osKey] = arches
	}

	return f, nil
}

func (f *Formula) validatePackage() error {
	p := f.Package
	if p.Name == "" {
		return f.invalid("package.name is required")
	}
	if err := validateName(p.Name); err != nil {
		return f.invalid(fmt.Sprintf("package.name: %v", err))
	}
	if p.Bin == "" {
		return f.invalid("package.bin is required")
	}
	if strings.ContainsAny(p.Bin, `/\`) || p.Bin == "." || p.Bin == ".." {
		return f.invalid(fmt.Sprintf("package.bin %q must be a plain file name", p.Bin))
	}
	for _, v := range p.Versions {
		if strings.TrimSpace(v) == "" {
			return f.invalid("package.versions contains an empty version")
		}
		if !isPlainVersion(v) {
			return f.invalid(fmt.Sprintf("package.versions entry %q cannot contain path elements", v))
		}
	}
	if p.Version != "" && !isPlainVersion(p.Version) {
		return f.invalid(fmt.Sprintf("package.version %q cannot contain path elements", p.Version))
	}
	return nil
}

// isPlainVersion reports whether v is safe to use as a file name.
func isPlainVersion(v string) bool {
	return !strings.ContainsAny(v, `/\`) && !strings.Contains(v, "..") && v != "."
}

func (f *Formula) parseTarget(osKey, archKey string, entry interface{}) (target, error) {
	where := osKey + "." + archKey
	switch v := entry.(type) {
	case string:
		if v == "" {
			return target{}, f.invalid(fmt.Sprintf("%s has an empty url", where))
		}
		return target{url: v, ext: inferExt(v)}, nil
	case map[string]interface{}:
		url, _ := v["url"].(string)
		if url == "" {
			return target{}, f.invalid(fmt.Sprintf("%s.url is required", where))
		}
		t := target{url: url, ext: inferExt(url)}
		if ext, ok := v["ext"].(string); ok && ext != "" {
			t.ext = normalizeExt(ext)
		}
		if sum, ok := v["checksum"].(string); ok {
			t.checksum = sum
		}
		return t, nil
	default:
		return target{}, f.invalid(fmt.Sprintf("%s must be a url string or a table", where))
	}
}

func (f *Formula) invalid(reason string) error {
	return &InvalidFormulaError{Origin: f.origin, Reason: reason}
}

// Raw returns the formula document exactly as it was read.
func (f *Formula) Raw() string { return f.raw }

// Origin returns where the formula was fetched from.
func (f *Formula) Origin() string { return f.origin }

// SelectVersion resolves the version to install. An explicit request wins,
// then the declared default, then the first listed version. Explicit and
// default versions must appear in the versions list.
func (f *Formula) SelectVersion(explicit string) (string, error) {
	p := f.Package
	for _, want := range []string{explicit, p.Version} {
		if want == "" {
			continue
		}
		if !f.HasVersion(want) {
			return "", &VersionNotFoundError{Package: p.Name, Version: want, Available: p.Versions}
		}
		return want, nil
	}
	if len(p.Versions) == 0 {
		return "", &NoVersionAvailableError{Package: p.Name}
	}
	return p.Versions[0], nil
}

// HasVersion reports whether version is listed.
func (f *Formula) HasVersion(version string) bool {
	for _, v := range f.Package.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// DownloadTarget returns the artifact for version on goos/goarch. goarch is
// a normalized Go architecture; formula keys such as x86_64 and aarch64 are
// matched through aliases.
func (f *Formula) DownloadTarget(version, goos, goarch string) (*DownloadTarget, error) {
	for _, osKey := range lookupKeys(osKeys, goos) {
		arches, ok := f.targets[osKey]
		if !ok {
			continue
		}
		for _, archKey := range lookupKeys(archKeys, goarch) {
			t, ok := arches[archKey]
			if !ok {
				continue
			}
			return &DownloadTarget{
				URL:      strings.ReplaceAll(t.url, VersionPlaceholder, version),
				Ext:      t.ext,
				Checksum: t.checksum,
			}, nil
		}
	}
	return nil, &NoDownloadTargetError{Package: f.Package.Name, Version: version, OS: goos, Arch: goarch}
}

// Platforms lists the "os/arch" keys the formula provides, sorted.
func (f *Formula) Platforms() []string {
	var out []string
	for osKey, arches := range f.targets {
		for archKey := range arches {
			out = append(out, osKey+"/"+archKey)
		}
	}
	sort.Strings(out)
	return out
}
