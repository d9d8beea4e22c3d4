package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is an SVG colour name ("darkslategray") or hex "#RRGGBB[AA]".
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// RGBA returns black for an unset colour.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c.Color == nil {
		return color.Black.RGBA()
	}
	return c.Color.RGBA()
}

func ParseColor(s string) (color.Color, error) {
	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return named, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", s)
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		rgba[i] = uint8(v)
	}
	return color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}
