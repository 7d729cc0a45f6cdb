package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// appName is used for directories and display.
const appName = "tagcloud"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tagcloud spins labels and icons on a 3D shape",
		Long:         `Tagcloud places tags on a sphere, cube, helix or one of six other shapes, spins them with eased momentum and draws them with depth-based scale and opacity. It renders headless to SVG, PNG or JSON, runs interactively in a terminal or window, and serves a live preview over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			bridgeRaster(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.windowCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tagcloud/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Cloud flags
// =============================================================================

// cloudFlags are the flags every host shares: where the cloud comes from and
// the handful of settings worth overriding on the command line.
type cloudFlags struct {
	config string
	tags   []string
	shape  string
	radius float64
	speed  float64
	paused bool
	width  float64
	height float64
}

func (f *cloudFlags) register(cmd *cobra.Command, width, height float64) {
	f.width, f.height = width, height
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML file with [settings] and [[tags]]")
	cmd.Flags().StringArrayVarP(&f.tags, "tag", "t", nil, `tag as "text" or "text:#rrggbb" (repeatable)`)
	cmd.Flags().StringVar(&f.shape, "shape", "", "shape: "+shapeNames())
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "layout radius in pixels")
	cmd.Flags().Float64Var(&f.speed, "speed", 0, "idle spin speed")
	cmd.Flags().BoolVar(&f.paused, "paused", false, "start paused")
	cmd.Flags().Float64Var(&f.width, "width", width, "viewport width")
	cmd.Flags().Float64Var(&f.height, "height", height, "viewport height")
	registerCloudCompletions(cmd)
}

// load layers defaults, the config file and changed flags. Diagnostics are
// options that were ignored or replaced along the way.
func (f *cloudFlags) load(cmd *cobra.Command) (settings.Settings, []tags.Tag, []error, error) {
	s := settings.Defaults()
	var list []tags.Tag
	var diags []error

	if f.config != "" {
		doc, err := settings.LoadFile(f.config)
		if err != nil {
			return s, nil, nil, err
		}
		s, list, diags = doc.Settings, doc.Tags, doc.Diagnostics
	}

	var p settings.Patch
	flags := cmd.Flags()
	if flags.Changed("shape") {
		shape := layout.Shape(f.shape)
		p.Shape = &shape
	}
	if flags.Changed("radius") {
		p.Radius = &f.radius
	}
	if flags.Changed("speed") {
		p.Speed = &f.speed
	}
	if flags.Changed("paused") {
		p.Paused = &f.paused
	}
	s, more := s.Apply(p)
	diags = append(diags, more...)

	for i, raw := range f.tags {
		list = append(list, parseTagFlag(raw, i))
	}
	if len(list) == 0 {
		list = demoTags()
	}
	return s, list, diags, nil
}

// palette colors tags given without one.
var palette = []string{"#00add8", "#ce3262", "#5dc9e2", "#fddd00", "#8dc63f", "#ff6b35", "#7f52ff", "#336699"}

// parseTagFlag reads "text" or "text:#rrggbb". A trailing colon segment that
// is not a color is kept as part of the text.
func parseTagFlag(raw string, i int) tags.Tag {
	text, color := raw, palette[i%len(palette)]
	if j := strings.LastIndex(raw, ":#"); j >= 0 {
		text, color = raw[:j], raw[j+1:]
	}
	return tags.Tag{Text: text, Color: color}
}

func demoTags() []tags.Tag {
	words := []string{
		"Go", "goroutine", "channel", "select", "interface", "struct", "slice", "map",
		"defer", "context", "generics", "module", "testing", "pprof", "race", "vet",
		"gofmt", "embed", "sync", "atomic", "errors", "io", "net/http", "json",
	}
	list := make([]tags.Tag, len(words))
	for i, w := range words {
		list[i] = tags.Tag{Text: w, Color: palette[i%len(palette)]}
	}
	return list
}

func shapeNames() string {
	names := make([]string, len(layout.All))
	for i, s := range layout.All {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// reportDiagnostics prints one warning per ignored option.
func reportDiagnostics(diags []error) {
	for _, d := range diags {
		printWarning("%v", d)
	}
}

// parsePoint reads "x,y".
func parsePoint(s string) (x, y float64, err error) {
	if _, err := fmt.Sscanf(s, "%g,%g", &x, &y); err != nil {
		return 0, 0, fmt.Errorf("invalid point %q (want x,y): %w", s, err)
	}
	return x, y, nil
}
