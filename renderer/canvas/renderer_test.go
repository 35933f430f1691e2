package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

func letterPage() layout.PageSpec {
	return layout.PageSpec{Width: 8.5, Height: 11, MarginX: 0.25, MarginY: 0.25, ImageDPI: 300, PageDPI: 96}
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

var redLine = renderer.LineStyle{Color: renderer.Color{R: 255}, WidthPt: 0.75}

func TestPDFSurfaceWritesPages(t *testing.T) {
	var buf bytes.Buffer
	s := NewPDFSurface(&buf, letterPage(), Options{Title: "sheet", Creator: "pnpstitch"})

	for page := 0; page < 2; page++ {
		if err := s.StartPage(); err != nil {
			t.Fatalf("StartPage: %v", err)
		}
		if err := s.DrawLine(0.5, 0, 0.5, 11, redLine); err != nil {
			t.Fatalf("DrawLine: %v", err)
		}
		dashed := redLine
		dashed.Dashed = true
		if err := s.DrawLine(0, 0.25, 8.5, 0.25, dashed); err != nil {
			t.Fatalf("DrawLine: %v", err)
		}
		if err := s.DrawImage(solid(30, 42), 0.5, 0.25, 2.5, 3.5); err != nil {
			t.Fatalf("DrawImage: %v", err)
		}
		if err := s.FinishPage(); err != nil {
			t.Fatalf("FinishPage: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Pages() != 2 {
		t.Fatalf("Pages = %d, want 2", s.Pages())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestPDFSurfaceCallOrder(t *testing.T) {
	var buf bytes.Buffer
	s := NewPDFSurface(&buf, letterPage(), Options{})

	if err := s.DrawLine(0, 0, 1, 0, redLine); err == nil {
		t.Fatalf("DrawLine before StartPage must fail")
	}
	if err := s.FinishPage(); err == nil {
		t.Fatalf("FinishPage before StartPage must fail")
	}
	if err := s.StartPage(); err != nil {
		t.Fatalf("StartPage: %v", err)
	}
	if err := s.StartPage(); err == nil {
		t.Fatalf("nested StartPage must fail")
	}
	if err := s.DrawImage(nil, 0, 0, 1, 1); err == nil {
		t.Fatalf("nil image must fail")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unfinished page must not be written, got %d bytes", buf.Len())
	}
	if err := s.StartPage(); err == nil {
		t.Fatalf("StartPage after Close must fail")
	}
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestSVGSurfaceOnePerPage(t *testing.T) {
	var outs []*bufferCloser
	open := func(page int) (io.WriteCloser, error) {
		if page != len(outs)+1 {
			t.Fatalf("page %d opened out of order", page)
		}
		b := &bufferCloser{}
		outs = append(outs, b)
		return b, nil
	}
	s := NewSVGSurface(open, letterPage(), Options{Resample: true})
	for page := 0; page < 3; page++ {
		if err := s.StartPage(); err != nil {
			t.Fatalf("StartPage: %v", err)
		}
		if err := s.DrawImage(solid(750, 1050), 0.5, 0.25, 2.5, 3.5); err != nil {
			t.Fatalf("DrawImage: %v", err)
		}
		if err := s.DrawLine(0, 3.75, 8.5, 3.75, redLine); err != nil {
			t.Fatalf("DrawLine: %v", err)
		}
		if err := s.FinishPage(); err != nil {
			t.Fatalf("FinishPage: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(outs) != 3 || s.Pages() != 3 {
		t.Fatalf("expected 3 svg documents, got %d (pages=%d)", len(outs), s.Pages())
	}
	for i, out := range outs {
		if !out.closed {
			t.Fatalf("page %d writer not closed", i+1)
		}
		if !strings.Contains(out.String(), "<svg") {
			t.Fatalf("page %d is not an svg document", i+1)
		}
	}
}

func TestResample(t *testing.T) {
	src := solid(750, 1050)
	got := resample(src, 2.5, 3.5, 96)
	if got.Bounds().Dx() != 240 || got.Bounds().Dy() != 336 {
		t.Fatalf("resampled bounds = %v, want 240x336", got.Bounds())
	}
	small := solid(100, 100)
	if resample(small, 2.5, 3.5, 96) != small {
		t.Fatalf("images already below target resolution must be kept")
	}
}
