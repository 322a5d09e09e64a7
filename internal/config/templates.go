package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/wirehdr/internal/protocol/frame"
)

// templates are rendered from the same structs Load decodes, so a template
// always parses back.
var templates = map[string]headerConfig{
	"request": {
		Provider:    1,
		Session:     "0",
		ContentType: 1,
		AcceptType:  1,
		Opcode:      9,
	},
	"response": {
		Provider:    1,
		Session:     "0xffffffffffffffff",
		ContentType: 1,
		AcceptType:  1,
		Opcode:      9,
	},
}

func Template(kind string) (string, error) {
	h, ok := templates[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
	limits := frame.DefaultLimits()
	raw := fileConfig{
		Limits: limitsConfig{
			MaxBodyBytes: int64(limits.MaxBodyBytes),
			MaxAuthBytes: int64(limits.MaxAuthBytes),
		},
		Header: h,
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(raw); err != nil {
		return "", fmt.Errorf("render %s template: %w", kind, err)
	}
	return buf.String(), nil
}

// WriteTemplate writes the kind template to path. Without overwrite an
// existing file is left untouched.
func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(template); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
