package highlights

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrPresetFormat is returned for preset files that are neither TOML nor YAML.
var ErrPresetFormat = errors.New("unknown preset format")

// LoadParams reads effect parameters from a .toml, .yaml or .yml file.
// Keys missing from the file keep their value from base, unknown keys are rejected.
func LoadParams(path string, base Params) (Params, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return base, err
	}
	p := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&p)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&p); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return base, fmt.Errorf("%w: %s", ErrPresetFormat, path)
	}
	if err != nil {
		return base, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return p, nil
}
