package cask

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ZebulonRouseFrantzich/cask/internal/formula"
)

// ManifestHeader is the first line of every install record.
const ManifestHeader = "# The file is generated by Cask. DO NOT MODIFY IT."

// TimeFormat is the layout of created_at, always in UTC.
const TimeFormat = "2006-01-02T15:04:05Z"

// Record is the [cask] section of an install record.
type Record struct {
	Name       string    `json:"name" yaml:"name"`
	Version    string    `json:"version" yaml:"version"`
	Repository string    `json:"repository" yaml:"repository"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Manifest is a parsed install record: the [cask] section plus the formula
// that was installed.
type Manifest struct {
	Record  Record
	Formula *formula.Formula
}

type recordDocument struct {
	Cask struct {
		Name       string `toml:"name"`
		CreatedAt  string `toml:"created_at"`
		Version    string `toml:"version"`
		Repository string `toml:"repository"`
	} `toml:"cask"`
}

// RenderManifest produces the install record text: header, [cask] section,
// a blank line and the formula text verbatim.
func RenderManifest(rec Record, formulaText string) []byte {
	var b strings.Builder
	b.WriteString(ManifestHeader + "\n")
	b.WriteString("[cask]\n")
	fmt.Fprintf(&b, "name = %s\n", quote(rec.Name))
	fmt.Fprintf(&b, "created_at = %s\n", quote(rec.CreatedAt.UTC().Format(TimeFormat)))
	fmt.Fprintf(&b, "version = %s\n", quote(rec.Version))
	fmt.Fprintf(&b, "repository = %s\n", quote(rec.Repository))
	b.WriteString("\n")
	b.WriteString(formulaText)
	return []byte(b.String())
}

// WriteManifest writes the install record to path, replacing any previous
// one.
func WriteManifest(path string, rec Record, formulaText string) error {
	if err := os.WriteFile(path, RenderManifest(rec, formulaText), 0o644); err != nil {
		return fmt.Errorf("write install record: %w", err)
	}
	return nil
}

// ReadManifest parses the install record at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read install record: %w", err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses install record text. origin names the file in errors.
func ParseManifest(data []byte, origin string) (*Manifest, error) {
	var doc recordDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse install record %s: %w", origin, err)
	}
	if doc.Cask.Name == "" || doc.Cask.Version == "" {
		return nil, fmt.Errorf("parse install record %s: missing [cask] name or version", origin)
	}

	created, err := time.Parse(TimeFormat, doc.Cask.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse install record %s: created_at: %w", origin, err)
	}

	f, err := formula.Parse(data, doc.Cask.Repository)
	if err != nil {
		return nil, fmt.Errorf("parse install record %s: %w", origin, err)
	}

	return &Manifest{
		Record: Record{
			Name:       doc.Cask.Name,
			Version:    doc.Cask.Version,
			Repository: doc.Cask.Repository,
			CreatedAt:  created,
		},
		Formula: f,
	}, nil
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
