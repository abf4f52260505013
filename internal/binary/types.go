package binary

import "strings"

// Format is an archive container format.
type Format int

const (
	// FormatUnsupported is any file name without a known suffix.
	FormatUnsupported Format = iota
	// FormatTar is an uncompressed tar archive.
	FormatTar
	// FormatTarGzip is a gzip-compressed tar archive.
	FormatTarGzip
	// FormatZip is a zip archive.
	FormatZip
)

// String returns the file extension for the format.
func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar.gz"
	case FormatZip:
		return "zip"
	default:
		return "unsupported"
	}
}

// DetectFormat chooses a format from the archive's file name. Suffixes are
// checked in the order .tar.gz, .tar, .zip.
func DetectFormat(name string) Format {
	switch {
	case strings.HasSuffix(name, ".tar.gz"):
		return FormatTarGzip
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	default:
		return FormatUnsupported
	}
}
