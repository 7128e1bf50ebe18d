package sequential

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// fileDefinition is the on-disk shape of a sequence. Guards cannot be
// expressed in a file; attach them with Definition.Configure.
type fileDefinition struct {
	Loop   bool        `toml:"loop" yaml:"loop"`
	Start  int         `toml:"start" yaml:"start"`
	Panels []filePanel `toml:"panels" yaml:"panels"`
}

type filePanel struct {
	ID          string         `toml:"id" yaml:"id"`
	Title       string         `toml:"title" yaml:"title"`
	Description string         `toml:"description" yaml:"description"`
	Disabled    bool           `toml:"disabled" yaml:"disabled"`
	Props       map[string]any `toml:"props" yaml:"props"`
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported definition file %q", path)
	}
}

// LoadDefinition reads a definition file, choosing the decoder by extension
func LoadDefinition(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	def, err := DecodeDefinition(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// DecodeDefinition decodes a definition and validates it. Unknown keys are rejected.
func DecodeDefinition(r io.Reader, format Format) (*Definition, error) {
	var fd fileDefinition

	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&fd)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml: unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&fd); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode yaml: empty document")
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	def := NewDefinition().Initial(fd.Start).Loop(fd.Loop)
	for _, p := range fd.Panels {
		def.Panel(PanelID(p.ID),
			WithTitle(p.Title),
			WithDescription(p.Description),
			WithDisabled(p.Disabled),
			WithProps(p.Props),
		)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
