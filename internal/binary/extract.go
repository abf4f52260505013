package binary

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// xattrPrefix marks extended attributes in tar PAX records.
const xattrPrefix = "SCHILY.xattr."

// defaultZipMode is used for zip entries that carry no Unix mode.
const defaultZipMode fs.FileMode = 0o755

// Zip creator host systems whose external attributes hold a Unix mode.
const (
	creatorUnix  = 3
	creatorMacOS = 19
)

// entry is one archive member, independent of the container format.
type entry struct {
	name    string
	dir     bool
	symlink string      // link target for symbolic links
	mode    fs.FileMode // zero leaves the created file's mode alone
	modTime time.Time   // zero leaves the modification time alone
	xattrs  map[string]string
	open    func() (io.ReadCloser, error)
}

// nextFunc yields archive entries in order and io.EOF after the last one.
type nextFunc func() (*entry, error)

// Extract finds the first entry in archivePath whose base name is wantedName
// and writes it to destDir/wantedName, replacing anything already there. It
// returns the written path.
func Extract(archivePath, wantedName, destDir string) (string, error) {
	format := DetectFormat(filepath.Base(archivePath))
	if format == FormatUnsupported {
		return "", &UnsupportedFormatError{Path: archivePath}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return "", &ArchiveParseError{Path: archivePath, Err: err}
	}
	defer f.Close()

	var next nextFunc
	switch format {
	case FormatTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", &ArchiveParseError{Path: archivePath, Err: err}
		}
		defer gz.Close()
		next = tarEntries(tar.NewReader(gz))
	case FormatTar:
		next = tarEntries(tar.NewReader(f))
	case FormatZip:
		info, err := f.Stat()
		if err != nil {
			return "", &ArchiveParseError{Path: archivePath, Err: err}
		}
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return "", &ArchiveParseError{Path: archivePath, Err: err}
		}
		next = zipEntries(zr, runtime.GOOS)
	}

	return extractEntry(archivePath, next, wantedName, destDir)
}

// extractEntry is shared by all formats: locate the wanted entry, then
// materialize it.
func extractEntry(archivePath string, next nextFunc, wantedName, destDir string) (string, error) {
	for {
		e, err := next()
		if errors.Is(err, io.EOF) {
			return "", &BinaryNotFoundError{Name: wantedName, Archive: archivePath}
		}
		if err != nil {
			return "", &ArchiveParseError{Path: archivePath, Err: err}
		}
		if e.dir || entryBase(e.name) != wantedName {
			continue
		}

		dest := filepath.Join(destDir, wantedName)
		if err := materialize(e, dest); err != nil {
			return "", fmt.Errorf("extract %s from %s: %w", e.name, archivePath, err)
		}
		return dest, nil
	}
}

// entryBase returns the last element of an archive member name. Backslashes
// written by some Windows archivers count as separators.
func entryBase(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		return ""
	}
	return path.Base(name)
}

// materialize writes e to dest with its recorded metadata.
func materialize(e *entry, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if e.symlink != "" {
		return os.Symlink(e.symlink, dest)
	}

	if err := writeContent(e, dest); err != nil {
		return err
	}

	if e.mode != 0 {
		// Chmod again so the umask applied at creation does not strip bits.
		if err := os.Chmod(dest, e.mode); err != nil {
			return err
		}
	}
	if !e.modTime.IsZero() {
		if err := os.Chtimes(dest, e.modTime, e.modTime); err != nil {
			return err
		}
	}
	if len(e.xattrs) > 0 {
		if err := setXattrs(dest, e.xattrs); err != nil {
			return err
		}
	}
	return nil
}

func writeContent(e *entry, dest string) error {
	src, err := e.open()
	if err != nil {
		return err
	}
	defer src.Close()

	perm := e.mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fileMode keeps the permission and special bits of m.
func fileMode(m fs.FileMode) fs.FileMode {
	return m & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
}

func tarEntries(tr *tar.Reader) nextFunc {
	return func() (*entry, error) {
		for {
			hdr, err := tr.Next()
			if err != nil {
				return nil, err
			}

			e := &entry{
				name:    hdr.Name,
				modTime: hdr.ModTime,
				open:    func() (io.ReadCloser, error) { return io.NopCloser(tr), nil },
			}
			switch hdr.Typeflag {
			case tar.TypeDir:
				e.dir = true
			case tar.TypeReg:
				e.mode = fileMode(hdr.FileInfo().Mode())
				e.xattrs = paxXattrs(hdr.PAXRecords)
			case tar.TypeSymlink:
				e.symlink = hdr.Linkname
				e.modTime = time.Time{}
			default:
				// Hard links, devices and FIFOs cannot be installed as an
				// executable.
				continue
			}
			return e, nil
		}
	}
}

func paxXattrs(records map[string]string) map[string]string {
	var out map[string]string
	for key, value := range records {
		name, ok := strings.CutPrefix(key, xattrPrefix)
		if !ok || name == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = value
	}
	return out
}

func zipEntries(zr *zip.Reader, goos string) nextFunc {
	i := 0
	return func() (*entry, error) {
		if i >= len(zr.File) {
			return nil, io.EOF
		}
		f := zr.File[i]
		i++

		e := &entry{
			name: f.Name,
			dir:  f.FileInfo().IsDir(),
			open: f.Open,
		}
		if !e.dir {
			e.mode = zipMode(f, goos)
		}
		return e, nil
	}
}

// zipMode returns the Unix mode recorded for f, or defaultZipMode when the
// archiver did not record one. Windows hosts never get a mode.
func zipMode(f *zip.File, goos string) fs.FileMode {
	if goos == "windows" {
		return 0
	}
	creator := f.CreatorVersion >> 8
	if (creator == creatorUnix || creator == creatorMacOS) && f.ExternalAttrs>>16 != 0 {
		if m := fileMode(f.Mode()); m != 0 {
			return m
		}
	}
	return defaultZipMode
}
