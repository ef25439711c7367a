// Package renderer draws the scene with raylib.
package renderer

import (
	"image"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TextureCache owns the GPU copies of decoded textures.
// Uploads must happen on the window goroutine.
type TextureCache struct {
	textures map[string]rl.Texture2D
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[string]rl.Texture2D)}
}

// Upload creates (or replaces) the texture for key.
func (c *TextureCache) Upload(key string, img *image.NRGBA) {
	if old, ok := c.textures[key]; ok {
		rl.UnloadTexture(old)
	}
	cpu := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(cpu)
	rl.UnloadImage(cpu)

	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	c.textures[key] = tex
	slog.Debug("texture_uploaded", "key", key, "width", tex.Width, "height", tex.Height)
}

// Get returns the texture for key.
func (c *TextureCache) Get(key string) (rl.Texture2D, bool) {
	if key == "" {
		return rl.Texture2D{}, false
	}
	tex, ok := c.textures[key]
	return tex, ok
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	return len(c.textures)
}

// Unload frees every texture.
func (c *TextureCache) Unload() {
	for key, tex := range c.textures {
		rl.UnloadTexture(tex)
		delete(c.textures, key)
	}
}
