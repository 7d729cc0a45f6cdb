package settings

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// Document is a cloud description read from a TOML file:
//
//	[settings]
//	shape = "torus"
//	radius = 180
//	click_duration = "250ms"
//
//	[[tags]]
//	text = "go"
//	color = "#00add8"
type Document struct {
	Settings Settings
	Tags     []tags.Tag

	// Diagnostics lists every option that was ignored or replaced.
	Diagnostics []error
}

type rawDocument struct {
	Settings map[string]any `toml:"settings"`
	Tags     []tags.Tag     `toml:"tags"`
}

// LoadFile reads and decodes a TOML document from path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	return Parse(data, Defaults())
}

// Parse decodes a TOML document. Settings keys may be written in snake_case
// or camelCase and are applied on top of base.
func Parse(data []byte, base Settings) (*Document, error) {
	var raw rawDocument
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode settings document")
	}

	doc := &Document{Tags: raw.Tags}
	for _, key := range md.Undecoded() {
		if len(key) == 1 {
			doc.Diagnostics = append(doc.Diagnostics, errors.New(errors.ErrCodeInvalidInput, "unknown top-level key %q", key.String()))
		}
	}

	patch, diags := DecodePatch(raw.Settings)
	doc.Diagnostics = append(doc.Diagnostics, diags...)
	s, diags := base.Apply(patch)
	doc.Diagnostics = append(doc.Diagnostics, diags...)
	doc.Settings = s
	return doc, nil
}
