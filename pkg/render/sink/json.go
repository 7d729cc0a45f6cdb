package sink

import (
	"encoding/json"

	"github.com/matzehuels/tagcloud/pkg/motion"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/settings"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	instance string
	state    *motion.State
	settings *settings.Settings
}

// WithJSONInstance records the engine instance ID.
func WithJSONInstance(id string) JSONOption { return func(r *jsonRenderer) { r.instance = id } }

// WithJSONState includes the rotation and velocity state.
func WithJSONState(s motion.State) JSONOption { return func(r *jsonRenderer) { r.state = &s } }

// WithJSONSettings includes the settings the frame was drawn with.
func WithJSONSettings(s settings.Settings) JSONOption {
	return func(r *jsonRenderer) { r.settings = &s }
}

type jsonOutput struct {
	Instance string              `json:"instance,omitempty"`
	Viewport projection.Viewport `json:"viewport"`
	Items    []projection.Item   `json:"items"`
	State    *motion.State       `json:"state,omitempty"`
	Settings *settings.Settings  `json:"settings,omitempty"`
}

// RenderJSON exports the frame as a pretty-printed JSON document. Items
// keep draw order, farthest first.
func RenderJSON(f *projection.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Instance: r.instance,
		State:    r.state,
		Settings: r.settings,
		Items:    []projection.Item{},
	}
	if f != nil {
		out.Viewport = f.Viewport
		if f.Items != nil {
			out.Items = f.Items
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
