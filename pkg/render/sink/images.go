package sink

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/httputil"
)

// fetchTimeout bounds one remote image download.
const fetchTimeout = 15 * time.Second

// Loader decodes the image behind a tag's image reference.
type Loader func(ctx context.Context, ref string) (image.Image, error)

type imageEntry struct {
	buf  *gg.ImageBuf
	err  error
	done bool
}

// Images loads tag images in the background and keeps them for the life of
// the canvas. Get never blocks: a reference seen for the first time starts a
// load and reports NOT_READY until it finishes.
type Images struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	entries map[string]*imageEntry
	load    Loader
	onLoad  func(ref string, err error)
}

// ImagesOption configures an Images loader.
type ImagesOption func(*Images)

// WithLoader replaces the default file and HTTP loader.
func WithLoader(l Loader) ImagesOption { return func(im *Images) { im.load = l } }

// WithOnLoad registers a callback run, on the loading goroutine, after each
// image finishes loading or fails. Hosts use it to schedule
// Engine.ResourceLoaded on their own loop.
func WithOnLoad(fn func(ref string, err error)) ImagesOption {
	return func(im *Images) { im.onLoad = fn }
}

// NewImages returns an empty loader.
func NewImages(opts ...ImagesOption) *Images {
	im := &Images{entries: make(map[string]*imageEntry), load: LoadImage}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Get returns the decoded image for ref. While ref is loading the error has
// code NOT_READY. A failed load returns its error on every call.
func (im *Images) Get(ref string) (*gg.ImageBuf, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	e, ok := im.entries[ref]
	if !ok {
		e = &imageEntry{}
		im.entries[ref] = e
		im.wg.Add(1)
		go im.fetch(ref, e)
	}
	switch {
	case !e.done:
		return nil, errors.New(errors.ErrCodeNotReady, "image %s is loading", ref)
	case e.err != nil:
		return nil, e.err
	}
	return e.buf, nil
}

func (im *Images) fetch(ref string, e *imageEntry) {
	defer im.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	img, err := im.load(ctx, ref)
	im.mu.Lock()
	if err != nil {
		e.err = errors.Wrap(errors.ErrCodeNotFound, err, "load image %s", ref)
	} else {
		e.buf = gg.ImageBufFromImage(img)
	}
	e.done = true
	err = e.err
	im.mu.Unlock()

	if im.onLoad != nil {
		im.onLoad(ref, err)
	}
}

// Wait blocks until every load started so far has finished.
func (im *Images) Wait() {
	im.wg.Wait()
}

// Len returns the number of references seen.
func (im *Images) Len() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return len(im.entries)
}

// LoadImage is the default Loader. It fetches http and https references
// with retry and reads everything else from the local file system. PNG,
// JPEG, GIF, BMP and WebP are decoded.
func LoadImage(ctx context.Context, ref string) (image.Image, error) {
	return NewLoader(defaultFetcher)(ctx, ref)
}

var defaultFetcher = httputil.NewFetcher()

// NewLoader returns a Loader that downloads remote references through f,
// so hosts can share a response cache between runs.
func NewLoader(f *httputil.Fetcher) Loader {
	return func(ctx context.Context, ref string) (image.Image, error) {
		var r io.Reader
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			data, err := f.Fetch(ctx, ref)
			if err != nil {
				return nil, err
			}
			r = bytes.NewReader(data)
		} else {
			file, err := os.Open(ref)
			if err != nil {
				return nil, err
			}
			defer file.Close()
			r = file
		}
		img, _, err := image.Decode(r)
		return img, err
	}
}
