package catalog

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/ByLCY/pnpstitch/layout"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestOpenOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 6)
	writeBMP(t, filepath.Join(dir, "a.bmp"), 4, 6)
	writePNG(t, filepath.Join(dir, "c.PNG"), 4, 6)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	cat, err := Open(dir)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (%v)", cat.Len(), cat.Files())
	}
	if got := cat.ImageSize(); got != (layout.ImageSize{Width: 4, Height: 6}) {
		t.Fatalf("ImageSize = %v", got)
	}
	var names []string
	for _, f := range cat.Files() {
		names = append(names, filepath.Base(f))
	}
	if strings.Join(names, ",") != "a.bmp,b.png,c.PNG" {
		t.Fatalf("unexpected order: %v", names)
	}

	img, err := cat.Image(1)
	if err != nil {
		t.Fatalf("Image(1) error: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 6 {
		t.Fatalf("decoded bounds = %v", img.Bounds())
	}
	if _, err := cat.Image(3); err == nil {
		t.Fatalf("out of range index must fail")
	}
}

func TestOpenRejectsMixedSizes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 6)
	writePNG(t, filepath.Join(dir, "b.png"), 6, 4)
	_, err := Open(dir)
	if err == nil || !strings.Contains(err.Error(), "b.png") {
		t.Fatalf("expected size mismatch naming b.png, got %v", err)
	}
}

func TestOpenEmptyDirectory(t *testing.T) {
	cat, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if cat.Len() != 0 || cat.ImageSize() != (layout.ImageSize{}) {
		t.Fatalf("empty dir should give empty catalog, got len=%d size=%v", cat.Len(), cat.ImageSize())
	}
}

func TestOpenCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); err == nil {
		t.Fatalf("corrupt image should fail")
	}
}

func TestMemoryCatalog(t *testing.T) {
	size := layout.ImageSize{Width: 2, Height: 3}
	a := image.NewGray(image.Rect(0, 0, 2, 3))
	m, err := New(size, a, a)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if m.Len() != 2 || m.ImageSize() != size {
		t.Fatalf("unexpected catalog: len=%d size=%v", m.Len(), m.ImageSize())
	}
	if _, err := m.Image(2); err == nil {
		t.Fatalf("out of range index must fail")
	}
	if _, err := New(size, image.NewGray(image.Rect(0, 0, 3, 3))); err == nil {
		t.Fatalf("mismatched image must be rejected")
	}
}
