package formula

import "strings"

// osKeys maps GOOS values to the table names formulas use for them.
var osKeys = map[string][]string{
	"linux":   {"linux"},
	"darwin":  {"darwin", "macos"},
	"windows": {"windows"},
	"freebsd": {"freebsd"},
	"netbsd":  {"netbsd"},
	"openbsd": {"openbsd"},
	"android": {"android"},
}

// archKeys maps normalized GOARCH values to the keys formulas use. Published
// formulas mostly use the Rust target names, so those come first.
var archKeys = map[string][]string{
	"amd64":    {"x86_64", "amd64", "x64"},
	"arm64":    {"aarch64", "arm64"},
	"386":      {"x86", "386", "i686", "i386"},
	"arm":      {"arm", "armv7"},
	"mips":     {"mips"},
	"mipsle":   {"mipsel", "mipsle"},
	"mips64":   {"mips64"},
	"mips64le": {"mips64el", "mips64le"},
	"ppc64":    {"powerpc64", "ppc64"},
	"ppc64le":  {"powerpc64le", "ppc64le"},
	"riscv64":  {"riscv64"},
	"s390x":    {"s390x"},
}

// lookupKeys returns the candidate table keys for a host value, falling back
// to the value itself for hosts the tables do not know.
func lookupKeys(table map[string][]string, value string) []string {
	value = strings.ToLower(value)
	if keys, ok := table[value]; ok {
		return keys
	}
	return []string{value}
}

// inferExt derives an archive extension from a download URL.
func inferExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return "tar.gz"
	case strings.HasSuffix(lower, ".tar"):
		return "tar"
	case strings.HasSuffix(lower, ".zip"):
		return "zip"
	default:
		return "tar.gz"
	}
}

// normalizeExt accepts "tgz" and a leading dot.
func normalizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "tgz" {
		return "tar.gz"
	}
	return ext
}
