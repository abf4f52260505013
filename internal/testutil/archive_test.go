package testutil_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/ZebulonRouseFrantzich/cask/internal/testutil"
)

func TestTarGz(t *testing.T) {
	data := testutil.TarGz(t, map[string]string{"b": "2", "a": "1"})

	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gr)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
		if hdr.Mode != 0o755 {
			t.Errorf("%s mode = %o", hdr.Name, hdr.Mode)
		}
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("entries = %v, want [a b]", names)
	}
}

func TestZip(t *testing.T) {
	data := testutil.Zip(t, map[string]string{"tool.exe": "MZ"})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "tool.exe" {
		t.Errorf("entries = %v", zr.File)
	}
}

func TestSHA256Hex(t *testing.T) {
	const want = "a948904f2f0f479b8f8197694b30184b0d2ed1c1cd2a1ec0fb85d299a192a447"
	if got := testutil.SHA256Hex([]byte("hello world\n")); got != want {
		t.Errorf("SHA256Hex() = %s, want %s", got, want)
	}
}
