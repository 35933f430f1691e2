package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

// PageOpener 为第 page 页（从 1 开始）打开输出。
type PageOpener func(page int) (io.WriteCloser, error)

// SVGSurface 每页输出一个独立的 SVG 文档。
type SVGSurface struct {
	open   PageOpener
	page   layout.PageSpec
	opts   Options
	cur    *sheet
	pages  int
	closed bool
}

var _ renderer.Surface = (*SVGSurface)(nil)

// NewSVGSurface 创建 SVG 绘制端，open 负责为每一页提供输出目标。
func NewSVGSurface(open PageOpener, page layout.PageSpec, opts Options) *SVGSurface {
	return &SVGSurface{open: open, page: page, opts: opts}
}

// Pages returns the number of finished pages.
func (s *SVGSurface) Pages() int { return s.pages }

func (s *SVGSurface) StartPage() error {
	if s.closed {
		return fmt.Errorf("SVG 输出已关闭")
	}
	if s.cur != nil {
		return fmt.Errorf("第 %d 页尚未完成", s.pages+1)
	}
	s.cur = newSheet(s.page)
	return nil
}

func (s *SVGSurface) DrawImage(img image.Image, x, y, w, h float64) error {
	if s.cur == nil {
		return errNoPage
	}
	if s.opts.Resample {
		img = resample(img, w, h, s.page.PageDPI)
	}
	return s.cur.drawImage(img, x, y, w, h)
}

func (s *SVGSurface) DrawLine(x0, y0, x1, y1 float64, style renderer.LineStyle) error {
	if s.cur == nil {
		return errNoPage
	}
	s.cur.drawLine(x0, y0, x1, y1, style)
	return nil
}

func (s *SVGSurface) FinishPage() error {
	if s.cur == nil {
		return errNoPage
	}
	cur := s.cur
	s.cur = nil

	w, err := s.open(s.pages + 1)
	if err != nil {
		return fmt.Errorf("打开第 %d 页 SVG 输出失败: %w", s.pages+1, err)
	}
	doc := svg.New(w, cur.width, cur.height, nil)
	cur.c.RenderTo(doc)
	if err := errors.Join(doc.Close(), w.Close()); err != nil {
		return fmt.Errorf("写入第 %d 页 SVG 失败: %w", s.pages+1, err)
	}
	s.pages++
	Logger().Debug("svg page finished", "page", s.pages, "images", cur.images, "lines", cur.lines)
	return nil
}

// Close 丢弃未完成的页面；已完成的页面在 FinishPage 时已经写出。
func (s *SVGSurface) Close() error {
	s.closed = true
	s.cur = nil
	return nil
}
