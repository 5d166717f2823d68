// Package images resolves the natural sizes of replaced content.
//
// Layout treats replaced boxes as opaque: it only needs a natural size and
// the aspect ratio it implies. This package decodes raster image headers
// (PNG, JPEG, GIF) and caches the result per URL, so one document never
// fetches the same image twice.
package images

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/logger"
)

// Fetcher returns the content of an image URL.
type Fetcher func(url string) (io.ReadCloser, error)

// Cache stores the natural size of every image seen so far.
type Cache struct {
	fetch Fetcher
	sizes map[string]cacheEntry
}

type cacheEntry struct {
	size bo.Point
	ok   bool
}

// NewCache returns an empty cache fetching content with [fetch].
func NewCache(fetch Fetcher) *Cache {
	return &Cache{fetch: fetch, sizes: make(map[string]cacheEntry)}
}

// NaturalSize returns the (width, height) of the image at [url], in CSS
// pixels. A fetch or decode failure is logged and reported as a missing
// size; layout then treats the element as a regular non replaced box.
func (c *Cache) NaturalSize(url string) (bo.Point, bool) {
	if e, has := c.sizes[url]; has {
		return e.size, e.ok
	}
	size, err := c.decode(url)
	e := cacheEntry{size: size, ok: err == nil}
	c.sizes[url] = e
	if err != nil {
		logger.WarningLogger.Printf("replaced content at %q: %s", url, err)
	}
	return e.size, e.ok
}

func (c *Cache) decode(url string) (bo.Point, error) {
	content, err := c.fetch(url)
	if err != nil {
		return bo.Point{}, fmt.Errorf("fetching image: %s", err)
	}
	defer content.Close()
	// Only the header is read: the natural size never needs pixel data.
	config, _, err := image.DecodeConfig(content)
	if err != nil {
		return bo.Point{}, fmt.Errorf("decoding image: %s", err)
	}
	return bo.Point{pr.Float(config.Width), pr.Float(config.Height)}, nil
}

// ReplacedSizer adapts the cache to [bo.Builder.ReplacedSize]: an element
// with a "src" attribute naming a decodable image is a replaced box.
func (c *Cache) ReplacedSizer() func(*html.Node) (bo.Point, bool) {
	return func(n *html.Node) (bo.Point, bool) {
		for _, attr := range n.Attr {
			if attr.Key == "src" {
				return c.NaturalSize(attr.Val)
			}
		}
		return bo.Point{}, false
	}
}
