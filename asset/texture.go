// Package asset decodes sprite sheet images into textures.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no registered decoder recognises the data.
var ErrUnsupportedFormat = errors.New("asset: unsupported image format")

// Texture is a decoded sheet image. The GPU copy is created on first use of
// Image, so textures can be decoded and measured without a graphics context.
type Texture struct {
	Width  int
	Height int
	Format string
	Source image.Image

	image *ebiten.Image
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Source: img,
	}
}

// FromEbiten wraps an image that already lives on the GPU.
func FromEbiten(img *ebiten.Image) *Texture {
	b := img.Bounds()
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: "ebiten",
		Source: img,
		image:  img,
	}
}

// Image returns the texture as an ebiten image, uploading it on first call.
func (t *Texture) Image() *ebiten.Image {
	if t.image == nil {
		t.image = ebiten.NewImageFromImage(t.Source)
	}
	return t.image
}

// Size returns the texture size as floats, the unit sprite sheets use.
func (t *Texture) Size() (w, h float32) {
	return float32(t.Width), float32(t.Height)
}

// Decode reads one image in any format registered with the image package:
// PNG, JPEG, GIF, BMP or WebP.
func Decode(r io.Reader) (*Texture, error) {
	img, format, err := image.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("asset: decode: %w", err)
	}

	t := FromImage(img)
	t.Format = format
	return t, nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(b []byte) (*Texture, error) {
	return Decode(bytes.NewReader(b))
}

// Load decodes the image file at path.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	defer f.Close()

	return decodeNamed(f, path)
}

// LoadFS decodes name from fsys, typically an embed.FS.
func LoadFS(fsys fs.FS, name string) (*Texture, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	defer f.Close()

	return decodeNamed(f, name)
}

func decodeNamed(r io.Reader, name string) (*Texture, error) {
	t, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	slog.Debug("texture decoded", "name", name, "format", t.Format, "width", t.Width, "height", t.Height)
	return t, nil
}
