package config

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes cfg as YAML with two-space indentation.
func Dump(w io.Writer, cfg Config) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
