package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

// defaultLineWidth 在未配置线宽时使用（mm）。
const defaultLineWidth = 0.2

// dashPattern 为虚线的实线段与间隔长度（mm）。
var dashPattern = []float64{2, 1}

// Options 配置绘制端的页面与元信息。
type Options struct {
	Title   string
	Creator string
	// Resample 为 true 时把图片按页面 dpi 重新采样后再嵌入。
	Resample bool
}

// sheet 包装一页 canvas；对外坐标为英寸、左上角原点，内部换算为 canvas 的毫米与左下角原点。
type sheet struct {
	c      *canvas.Canvas
	ctx    *canvas.Context
	width  float64 // mm
	height float64 // mm
	images int
	lines  int
}

func newSheet(page layout.PageSpec) *sheet {
	w, h := toMm(page.Width), toMm(page.Height)
	c := canvas.New(w, h)
	return &sheet{c: c, ctx: canvas.NewContext(c), width: w, height: h}
}

// drawImage 把图片缩放到 w×h（英寸）并放在 (x, y)。
func (s *sheet) drawImage(img image.Image, x, y, w, h float64) error {
	if img == nil {
		return fmt.Errorf("图片为空")
	}
	px := img.Bounds().Dx()
	if px <= 0 || w <= 0 || h <= 0 {
		return fmt.Errorf("图片尺寸无效: %dpx -> %gx%gin", px, w, h)
	}
	dpmm := float64(px) / toMm(w)
	s.ctx.DrawImage(toMm(x), s.height-toMm(y+h), img, canvas.DPMM(dpmm))
	s.images++
	return nil
}

// drawLine 绘制一条裁切线，线宽以 pt 给出。
func (s *sheet) drawLine(x0, y0, x1, y1 float64, style renderer.LineStyle) {
	w := style.WidthPt * layout.PtToMm
	if w <= 0 {
		w = defaultLineWidth
	}
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(colorFromRenderer(style.Color))
	s.ctx.SetStrokeWidth(w)
	if style.Dashed {
		s.ctx.SetDashes(0, dashPattern...)
	} else {
		s.ctx.SetDashes(0)
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x1-x0), -toMm(y1-y0))
	s.ctx.DrawPath(toMm(x0), s.height-toMm(y0), p)
	s.lines++
}

// resample 把图片缩放到给定 dpi 下 w×h 英寸对应的像素尺寸。只做缩小，已经不大于目标时原样返回。
func resample(img image.Image, w, h float64, dpi int) image.Image {
	tw := int(math.Round(w * float64(dpi)))
	th := int(math.Round(h * float64(dpi)))
	b := img.Bounds()
	if tw <= 0 || th <= 0 || (tw >= b.Dx() && th >= b.Dy()) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func colorFromRenderer(c renderer.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将英寸转换为毫米。
func toMm(in float64) float64 { return in * layout.MmPerInch }

var errNoPage = fmt.Errorf("尚未调用 StartPage")
