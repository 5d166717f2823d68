package images

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"

	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	tu "github.com/velora-engine/velora/utils/testutils"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNaturalSize(t *testing.T) {
	data := pngData(t, 40, 30)
	fetches := 0
	cache := NewCache(func(url string) (io.ReadCloser, error) {
		fetches++
		return io.NopCloser(bytes.NewReader(data)), nil
	})

	size, ok := cache.NaturalSize("cat.png")
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, size, bo.Point{40, 30})

	cache.NaturalSize("cat.png")
	tu.AssertEqual(t, fetches, 1)
}

func TestInvalidImage(t *testing.T) {
	capt := tu.CaptureLogs()
	cache := NewCache(func(url string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("not an image"))), nil
	})
	_, ok := cache.NaturalSize("bad.png")
	tu.AssertEqual(t, ok, false)
	tu.AssertEqual(t, len(capt.Logs()), 1)

	// The failure is cached too: repeated lookups stay quiet.
	capt = tu.CaptureLogs()
	_, ok = cache.NaturalSize("bad.png")
	tu.AssertEqual(t, ok, false)
	capt.AssertNoLogs(t)
}

func TestFetchError(t *testing.T) {
	capt := tu.CaptureLogs()
	cache := NewCache(func(url string) (io.ReadCloser, error) {
		return nil, errors.New("offline")
	})
	_, ok := cache.NaturalSize("cat.png")
	tu.AssertEqual(t, ok, false)
	tu.AssertEqual(t, len(capt.Logs()), 1)
}

func TestReplacedSizer(t *testing.T) {
	data := pngData(t, 16, 8)
	cache := NewCache(func(url string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})

	img := &html.Node{
		Type: html.ElementNode, Data: "img",
		Attr: []html.Attribute{{Key: "src", Val: "logo.png"}},
	}
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	root.AppendChild(img)

	b := bo.Builder{
		StyleFor: func(*html.Node) pr.Properties {
			return pr.Properties{pr.PDisplay: pr.String("block")}
		},
		ReplacedSize: cache.ReplacedSizer(),
	}
	tree, errs := b.Build(root)
	tu.AssertEqual(t, len(errs), 0)

	node := tree.Node(tree.Node(tree.Root()).Children[0])
	tu.AssertEqual(t, node.Mode, bo.Replaced)
	tu.AssertEqual(t, node.IntrinsicSize, bo.Point{16, 8})
}
