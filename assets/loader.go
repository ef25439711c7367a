// Package assets decodes scene textures off the frame goroutine.
package assets

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Request names one texture to load.
type Request struct {
	Key     string // texture key referenced by sprites
	Path    string // file path; relative paths resolve against the loader dir
	MaxSize int    // longest side after loading; 0 keeps the decoded size
}

// Result is the outcome of one Request. Exactly one of Image and Err is set.
type Result struct {
	Key   string
	Path  string
	Image *image.NRGBA
	Err   error
}

// Size returns the decoded dimensions, or 0, 0 on failure.
func (r Result) Size() (w, h int) {
	if r.Image == nil {
		return 0, 0
	}
	b := r.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Decode reads an image file, chosen by extension: .png, .tga or .webp.
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		img, err = png.Decode(f)
	case ".tga":
		img, err = tga.Decode(f)
	case ".webp":
		img, err = webp.Decode(f)
	default:
		return nil, fmt.Errorf("assets: unknown extension %q: %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// Load decodes one request relative to dir and applies its size cap.
func Load(dir string, req Request) Result {
	path := req.Path
	if dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	res := Result{Key: req.Key, Path: path}

	img, err := Decode(path)
	if err != nil {
		res.Err = err
		return res
	}
	if req.MaxSize > 0 {
		img = Downscale(img, req.MaxSize)
	}
	res.Image = img
	return res
}

// LoadAsync decodes requests on a small worker pool and delivers results
// on the returned channel, in completion order. The channel is closed
// once every request has been answered or ctx is done.
func LoadAsync(ctx context.Context, dir string, reqs []Request, workers int) <-chan Result {
	if workers < 1 {
		workers = 1
	}
	out := make(chan Result, len(reqs))
	work := make(chan Request)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range work {
				res := Load(dir, req)
				select {
				case out <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(out)
		defer wg.Wait()
		defer close(work)
		for _, req := range reqs {
			select {
			case work <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
