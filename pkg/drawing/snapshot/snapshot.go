// Package snapshot loads a drawing export from disk into a memory session.
//
// An export is a YAML or JSON document with the shape of memory.Drawing.
// The format is chosen by file extension (.json is JSON, anything else is
// YAML). Save writes the current session state back so a purge run leaves
// an updated export behind.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
	"github.com/marmos91/blockpurge/pkg/drawing/memory"
)

// Format is the on-disk encoding of an export.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by the file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Session is a memory session backed by an export file.
type Session struct {
	*memory.Session
	path string
}

var _ drawing.Session = (*Session)(nil)

// Load reads the export at path.
//
// A missing or unreadable file is reported as SessionUnavailable; a file
// that does not decode into a drawing is reported as InvalidDrawing.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, drawingerrors.NewSessionUnavailableError(fmt.Errorf("read %s: %w", path, err))
	}

	d, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, drawingerrors.NewInvalidDrawingError(path, err)
	}
	if d.Name == "" {
		d.Name = filepath.Base(path)
	}

	return &Session{Session: memory.New(d), path: path}, nil
}

// Path returns the export file the session was loaded from.
func (s *Session) Path() string {
	return s.path
}

// Save writes the current drawing state back to the export file.
func (s *Session) Save() error {
	return s.SaveAs(s.path)
}

// SaveAs writes the current drawing state to path, replacing it atomically.
func (s *Session) SaveAs(path string) error {
	data, err := Encode(s.Snapshot(), FormatFor(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Decode parses an export in the given format and validates it.
func Decode(data []byte, format Format) (memory.Drawing, error) {
	var d memory.Drawing

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return memory.Drawing{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return memory.Drawing{}, fmt.Errorf("decode yaml: %w", err)
		}
	}

	if err := validate(d); err != nil {
		return memory.Drawing{}, err
	}
	return d, nil
}

// Encode serializes d in the given format.
func Encode(d memory.Drawing, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
}

var errEmptyBlockName = errors.New("block with empty name")

func validate(d memory.Drawing) error {
	for i, b := range d.Blocks {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("blocks[%d]: %w", i, errEmptyBlockName)
		}
	}
	return nil
}
