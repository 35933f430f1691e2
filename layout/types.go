package layout

import "fmt"

// 该文件定义排版规划共用的几何类型。所有线性尺寸统一为英寸（in），图片尺寸为像素。

// PageSpec 描述一次运行中固定不变的页面参数。
type PageSpec struct {
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	MarginX  float64 `json:"marginX" yaml:"marginX"` // 左右两侧各自的纸张边距
	MarginY  float64 `json:"marginY" yaml:"marginY"` // 上下两侧各自的纸张边距
	ImageDPI int     `json:"imageDpi" yaml:"imageDpi"`
	PageDPI  int     `json:"pageDpi" yaml:"pageDpi"`
}

// Validate 要求所有字段为正数。
func (p PageSpec) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("页面尺寸必须为正数: %gx%g", p.Width, p.Height)
	case p.MarginX <= 0 || p.MarginY <= 0:
		return fmt.Errorf("页面边距必须为正数: x=%g y=%g", p.MarginX, p.MarginY)
	case p.ImageDPI <= 0 || p.PageDPI <= 0:
		return fmt.Errorf("dpi 必须为正数: image=%d page=%d", p.ImageDPI, p.PageDPI)
	}
	return nil
}

// ImageSize 是整个图片目录共享的卡牌像素尺寸。
type ImageSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Inches 按 dpi 把像素尺寸换算为英寸。
func (s ImageSize) Inches(dpi int) (w, h float64) {
	return float64(s.Width) / float64(dpi), float64(s.Height) / float64(dpi)
}

func (s ImageSize) String() string { return fmt.Sprintf("%dx%dpx", s.Width, s.Height) }

// TrimOffset 为零表示净切（相邻卡牌共用一条线），非零时每条边界向内各画一条线。
type TrimOffset struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// GridCapacity 记录每页可容纳的行列数与居中偏移。
type GridCapacity struct {
	CardsPerRow int     `json:"cardsPerRow" yaml:"cardsPerRow"`
	CardsPerCol int     `json:"cardsPerCol" yaml:"cardsPerCol"`
	CutMarginX  float64 `json:"cutMarginX" yaml:"cutMarginX"`
	CutMarginY  float64 `json:"cutMarginY" yaml:"cutMarginY"`
}

// PerPage returns the number of cards on a full page.
func (g GridCapacity) PerPage() int { return g.CardsPerRow * g.CardsPerCol }

// Axis tells vertical and horizontal cut lines apart.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// CutLine 是一条与坐标轴平行的裁切线段。
type CutLine struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Axis derives the orientation from the coordinate pair that stays fixed.
func (c CutLine) Axis() Axis {
	if c.X0 == c.X1 {
		return Vertical
	}
	return Horizontal
}
