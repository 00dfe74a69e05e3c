// Package confstore reads and writes configuration values as files.
//
// The codec is picked from the file extension: .yaml / .yml use YAML,
// .xml uses XML (kept for files written by older installations). Write
// creates missing parent directories and replaces the target atomically.
package confstore

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/paths"
	"go.yaml.in/yaml/v3"
)

// filePermissions keeps passwords in configuration files owner-only.
const filePermissions = 0600

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var codecs = map[string]codec{
	".yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".xml":  {marshal: marshalXML, unmarshal: xml.Unmarshal},
}

func codecFor(path string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, errs.Newf(errs.ErrKindInvalidInput, "unsupported configuration format %q", ext)
	}
	return c, nil
}

// Write encodes v and stores it at path.
func Write(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}

	data, err := c.marshal(v)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to encode configuration", err)
	}

	dir := filepath.Dir(path)
	if err := paths.EnsureDir(dir); err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "failed to create configuration directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".confstore-*")
	if err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		return errs.Wrap(errs.ErrKindUnknown, "failed to write configuration", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to write configuration", err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "failed to set configuration permissions", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to replace configuration", err)
	}
	return nil
}

// Read decodes the file at path into v. A missing, unreadable or
// undecodable file is always an error; v is left untouched in that case
// only if decoding never started, so callers should decode into a fresh
// value.
func Read(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrKindNotFound, fmt.Sprintf("configuration file %s does not exist", path), err)
		}
		return errs.Wrap(errs.ErrKindPermissionDenied, fmt.Sprintf("configuration file %s is not readable", path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "configuration file %s is empty", path)
	}

	if err := c.unmarshal(data, v); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("configuration file %s is malformed", path), err)
	}
	return nil
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
