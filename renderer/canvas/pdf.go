package canvasrenderer

import (
	"fmt"
	"image"
	"io"

	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

// PDFSurface 把所有页面写入同一个 PDF 文档。
type PDFSurface struct {
	out    io.Writer
	page   layout.PageSpec
	opts   Options
	writer *pdf.PDF
	cur    *sheet
	pages  int
	closed bool
}

var _ renderer.Surface = (*PDFSurface)(nil)

// NewPDFSurface 创建写入 w 的 PDF 绘制端；文档在首次 FinishPage 时才真正开始写出。
func NewPDFSurface(w io.Writer, page layout.PageSpec, opts Options) *PDFSurface {
	return &PDFSurface{out: w, page: page, opts: opts}
}

// Pages returns the number of finished pages.
func (s *PDFSurface) Pages() int { return s.pages }

func (s *PDFSurface) StartPage() error {
	if s.closed {
		return fmt.Errorf("PDF 已关闭")
	}
	if s.cur != nil {
		return fmt.Errorf("第 %d 页尚未完成", s.pages+1)
	}
	s.cur = newSheet(s.page)
	return nil
}

func (s *PDFSurface) DrawImage(img image.Image, x, y, w, h float64) error {
	if s.cur == nil {
		return errNoPage
	}
	if s.opts.Resample {
		img = resample(img, w, h, s.page.PageDPI)
	}
	return s.cur.drawImage(img, x, y, w, h)
}

func (s *PDFSurface) DrawLine(x0, y0, x1, y1 float64, style renderer.LineStyle) error {
	if s.cur == nil {
		return errNoPage
	}
	s.cur.drawLine(x0, y0, x1, y1, style)
	return nil
}

func (s *PDFSurface) FinishPage() error {
	if s.cur == nil {
		return errNoPage
	}
	if s.writer == nil {
		s.writer = pdf.New(s.out, s.cur.width, s.cur.height, nil)
		s.writer.SetInfo(s.opts.Title, "", "", "", s.opts.Creator)
	} else {
		s.writer.NewPage(s.cur.width, s.cur.height)
	}
	s.cur.c.RenderTo(s.writer)
	s.pages++
	Logger().Debug("pdf page finished", "page", s.pages, "images", s.cur.images, "lines", s.cur.lines)
	s.cur = nil
	return nil
}

// Close 写出文档尾部。没有任何完成的页面时不写出内容。
func (s *PDFSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cur = nil
	if s.writer == nil {
		return nil
	}
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}
