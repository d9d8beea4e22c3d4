package scene

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/sprites/asset"
)

// TextureSet maps sheet indices to resident textures. It is owned by scene
// setup and passed to the composer and the renderer.
type TextureSet struct {
	textures *intmap.Map[uint64, *asset.Texture]
}

func NewTextureSet() *TextureSet {
	return &TextureSet{textures: intmap.New[uint64, *asset.Texture](8)}
}

// Put makes tex resident under index, replacing any previous texture.
func (s *TextureSet) Put(index uint64, tex *asset.Texture) {
	s.textures.Put(index, tex)
}

func (s *TextureSet) Get(index uint64) (*asset.Texture, bool) {
	if s == nil {
		return nil, false
	}
	return s.textures.Get(index)
}

func (s *TextureSet) Remove(index uint64) bool {
	return s.textures.Del(index)
}

func (s *TextureSet) Len() int {
	if s == nil {
		return 0
	}
	return s.textures.Len()
}
