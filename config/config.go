// Package config loads the YAML description of a sprite scene: window,
// sheet layout, animation variants and row composition.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
	"github.com/plus3/sprites/sprite"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

//go:embed default.yaml
var defaultYAML []byte

type File struct {
	Display    Display     `yaml:"display"`
	Sheet      Sheet       `yaml:"sheet"`
	Animations []Animation `yaml:"animations"`
	Scene      Scene       `yaml:"scene"`
}

type Display struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background Color  `yaml:"background"`
}

// Sheet locates the sprite sheet texture and describes its grid.
type Sheet struct {
	// Path is empty for the built-in sheet.
	Path  string `yaml:"path"`
	Index uint64 `yaml:"index"`

	sprite.Definition `yaml:",inline"`

	// SpriteWidth and SpriteHeight are the on-screen size of one sprite.
	// They default to the cell size.
	SpriteWidth  float32 `yaml:"sprite_width"`
	SpriteHeight float32 `yaml:"sprite_height"`
}

// Animation is one variant. Either Frames lists sprite indices or Row
// selects every cell of one sheet row, left to right.
type Animation struct {
	Name   string  `yaml:"name"`
	Frames []int   `yaml:"frames"`
	Row    *uint32 `yaml:"row"`
	Hold   float64 `yaml:"hold"`
	Rate   float64 `yaml:"rate"`
	Loop   *bool   `yaml:"loop"`
}

type Scene struct {
	Count     uint32 `yaml:"count"`
	Partition string `yaml:"partition"`
}

// Default returns the embedded configuration.
func Default() (*File, error) {
	f, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("config: default: %w", err)
	}
	return f, nil
}

// Load reads path, or returns Default when path is empty.
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data, fills defaults and validates the result.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	f.setDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) setDefaults() {
	if f.Display.Title == "" {
		f.Display.Title = "sprites"
	}
	if f.Sheet.SpriteWidth == 0 {
		f.Sheet.SpriteWidth = f.Sheet.CellWidth
	}
	if f.Sheet.SpriteHeight == 0 {
		f.Sheet.SpriteHeight = f.Sheet.CellHeight
	}
	for i := range f.Animations {
		if f.Animations[i].Rate == 0 {
			f.Animations[i].Rate = 1
		}
	}
	if f.Scene.Partition == "" {
		f.Scene.Partition = "half"
	}
}

// Validate checks what can be checked without building the sheet.
func (f *File) Validate() error {
	if f.Display.Width <= 0 || f.Display.Height <= 0 {
		return fmt.Errorf("%w: display %dx%d", ErrInvalid, f.Display.Width, f.Display.Height)
	}
	if len(f.Animations) == 0 {
		return fmt.Errorf("%w: no animations", ErrInvalid)
	}
	for _, a := range f.Animations {
		if (a.Row == nil) == (len(a.Frames) == 0) {
			return fmt.Errorf("%w: animation %q needs exactly one of frames or row", ErrInvalid, a.Name)
		}
		if a.Rate < 0 {
			return fmt.Errorf("%w: animation %q rate %v", ErrInvalid, a.Name, a.Rate)
		}
	}
	if _, err := f.Scene.PartitionFunc(len(f.Animations)); err != nil {
		return err
	}
	return nil
}

// Indices expands the animation into sprite indices of a sheet laid out as def.
func (a Animation) Indices(def sprite.Definition) ([]int, error) {
	if a.Row == nil {
		return a.Frames, nil
	}
	if *a.Row >= def.Rows {
		return nil, fmt.Errorf("%w: animation %q row %d of %d", ErrInvalid, a.Name, *a.Row, def.Rows)
	}
	out := make([]int, def.Columns)
	for c := range def.Columns {
		out[c] = def.Index(*a.Row, c)
	}
	return out, nil
}

// Build creates the shared animation over sheet.
func (a Animation) Build(sheet *sprite.Sheet) (*anim.Animation, error) {
	indices, err := a.Indices(sheet.Definition)
	if err != nil {
		return nil, err
	}
	opts := []anim.Option{anim.WithName(a.Name), anim.WithRate(a.Rate)}
	if a.Loop != nil {
		opts = append(opts, anim.WithLoop(*a.Loop))
	}
	return anim.Build(sheet, indices, a.Hold, opts...)
}

// BuildAll builds every variant in file order.
func (f *File) BuildAll(sheet *sprite.Sheet) ([]*anim.Animation, error) {
	out := make([]*anim.Animation, 0, len(f.Animations))
	for _, a := range f.Animations {
		built, err := a.Build(sheet)
		if err != nil {
			return nil, fmt.Errorf("config: animation %q: %w", a.Name, err)
		}
		out = append(out, built)
	}
	return out, nil
}

// ApplyRates retimes every playing instance whose animation has the name of
// a configured variant, so that it plays at the configured rate. Built
// animations are shared and are not modified. It returns how many instances
// changed.
func (f *File) ApplyRates(storage *ecs.Storage) int {
	rates := make(map[string]float64, len(f.Animations))
	for _, a := range f.Animations {
		rates[a.Name] = a.Rate
	}

	changed := 0
	for s := range ecs.NewView[struct{ *anim.Set }](storage).Values() {
		for i := range s.Set.Instances {
			in := &s.Set.Instances[i]
			rate, ok := rates[in.Animation.Name]
			if ok && in.Retime(rate) {
				changed++
			}
		}
	}
	return changed
}

// PartitionFunc resolves the partition name for n variants.
func (s Scene) PartitionFunc(n int) (scene.PartitionFunc, error) {
	switch s.Partition {
	case "half":
		if n < 2 {
			return nil, fmt.Errorf("%w: half partition needs two animations, have %d", ErrInvalid, n)
		}
		return scene.HalfSplit, nil
	case "alternate":
		return scene.Alternate(n), nil
	default:
		return nil, fmt.Errorf("%w: unknown partition %q", ErrInvalid, s.Partition)
	}
}
