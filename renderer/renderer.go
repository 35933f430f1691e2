package renderer

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Surface 是排版结果的绘制目标，例如 PDF 或 SVG。
// 坐标与尺寸均为英寸，原点位于页面左上角。
type Surface interface {
	StartPage() error
	DrawImage(img image.Image, x, y, w, h float64) error
	DrawLine(x0, y0, x1, y1 float64, style LineStyle) error
	FinishPage() error
	Close() error
}

// LineStyle 原样传递给绘制端，不影响排版几何。
type LineStyle struct {
	Color       Color
	WidthPt     float64
	Dashed      bool
	RoundCorner float64 // in
	Style       string
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		rgb[i] = int(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
