package scene

import (
	"image"
	"log/slog"

	"github.com/pthm-cable/shrine/assets"
	"github.com/pthm-cable/shrine/config"
)

// maxTextureSize caps the longest side of decoded textures.
const maxTextureSize = 2048

// TextureRequests lists every texture the scene uses, each once.
func (s *Scene) TextureRequests() []assets.Request {
	var reqs []assets.Request
	seen := make(map[string]bool)
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		reqs = append(reqs, assets.Request{Key: key, Path: key, MaxSize: maxTextureSize})
	}

	add(s.subjectTexture())
	for _, v := range s.Expression.Variants {
		add(v.Texture)
	}
	add(s.cfg.Companion.Texture)
	add(s.cfg.Effects.Texture)
	add(s.cfg.Cards.Texture)
	for _, ic := range s.cfg.Icons.Primary {
		add(ic.Texture)
	}
	for _, ic := range s.cfg.Icons.Secondary {
		add(ic.Texture)
	}
	return reqs
}

// subjectTexture is the texture the subject spawns with.
func (s *Scene) subjectTexture() string {
	if v, ok := s.Expression.Current(); ok {
		return v.Texture
	}
	return s.cfg.Subject.Texture
}

// Loader spawns scene objects as their textures arrive. Results are
// applied on the frame goroutine.
type Loader struct {
	scene *Scene

	// OnTexture receives every decoded image, e.g. for GPU upload.
	OnTexture func(key string, img *image.NRGBA)

	results map[string]assets.Result
	waiting map[string]bool
	icons   bool
}

// NewLoader creates a loader expecting the scene's texture requests.
func NewLoader(s *Scene, reqs []assets.Request) *Loader {
	l := &Loader{
		scene:   s,
		results: make(map[string]assets.Result),
		waiting: make(map[string]bool, len(reqs)),
	}
	for _, r := range reqs {
		l.waiting[r.Key] = true
	}
	return l
}

// Done reports whether every requested texture has been answered.
func (l *Loader) Done() bool {
	return len(l.waiting) == 0
}

// Pending returns the number of textures still loading.
func (l *Loader) Pending() int {
	return len(l.waiting)
}

// Apply records one load result and spawns whatever it completes.
func (l *Loader) Apply(res assets.Result) {
	if !l.waiting[res.Key] {
		slog.Warn("texture_unexpected", "key", res.Key)
		return
	}
	delete(l.waiting, res.Key)
	l.results[res.Key] = res

	if res.Err != nil {
		slog.Warn("texture_failed", "key", res.Key, "error", res.Err)
	} else if l.OnTexture != nil {
		l.OnTexture(res.Key, res.Image)
	}

	src := sourceOf(res)
	cfg := l.scene.cfg
	if res.Key == l.scene.subjectTexture() {
		l.scene.AddSubject(src)
	}
	if res.Key == cfg.Companion.Texture {
		l.scene.AddCompanion(src)
	}
	if res.Key == cfg.Effects.Texture {
		l.scene.AddEffects(src)
	}
	if res.Key == cfg.Cards.Texture {
		l.scene.AddCards(src)
	}
	l.spawnIcons()
}

// spawnIcons adds both icon rows once every icon texture is answered.
func (l *Loader) spawnIcons() {
	if l.icons {
		return
	}
	cfg := l.scene.cfg.Icons
	sources := make(map[string]PlaneSource)
	for _, ic := range append(append([]config.IconConfig(nil), cfg.Primary...), cfg.Secondary...) {
		if ic.Texture == "" {
			sources[ic.Name] = Failed
			continue
		}
		res, ok := l.results[ic.Texture]
		if !ok {
			return
		}
		sources[ic.Name] = sourceOf(res)
	}
	l.icons = true
	if len(sources) > 0 {
		l.scene.AddIcons(sources)
	}
}

func sourceOf(res assets.Result) PlaneSource {
	if res.Err != nil || res.Image == nil {
		return Failed
	}
	return Loaded(res.Size())
}
