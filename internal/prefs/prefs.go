// Package prefs persists the client's theme and language choice.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/web3-frozen/todo-board/internal/i18n"
)

// file mirrors the stored keys; darkMode is kept as "true"/"false".
type file struct {
	DarkMode string `toml:"darkMode"`
	Language string `toml:"language"`
}

type Prefs struct {
	DarkMode bool
	Language i18n.Locale
}

func Default() Prefs {
	return Prefs{Language: i18n.English}
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Prefs, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs %s: %w", path, err)
	}
	if dark, err := strconv.ParseBool(f.DarkMode); err == nil {
		p.DarkMode = dark
	}
	if f.Language != "" {
		p.Language = i18n.Parse(f.Language)
	}
	return p, nil
}

// Save writes p to path, creating the parent directory.
func Save(path string, p Prefs) error {
	if path == "" {
		return nil
	}
	var buf bytes.Buffer
	f := file{DarkMode: strconv.FormatBool(p.DarkMode), Language: string(p.Language)}
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write prefs %s: %w", path, err)
	}
	return nil
}
