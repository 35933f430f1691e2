package layout

import (
	"fmt"
	"math"
)

// fitEpsilon 吸收英寸换算带来的浮点误差，避免“刚好放下”被 floor 成少一张。
const fitEpsilon = 1e-9

// Plan 汇总一次运行的排版结果：网格容量与每页复用的裁切线。
type Plan struct {
	Page       PageSpec     `json:"page" yaml:"page"`
	Image      ImageSize    `json:"image" yaml:"image"`
	CardWidth  float64      `json:"cardWidth" yaml:"cardWidth"`
	CardHeight float64      `json:"cardHeight" yaml:"cardHeight"`
	Trim       TrimOffset   `json:"trim" yaml:"trim"`
	Grid       GridCapacity `json:"grid" yaml:"grid"`
	CutLines   []CutLine    `json:"cutLines" yaml:"cutLines"`
}

// NewPlan 校验输入后计算网格容量与裁切线。
func NewPlan(page PageSpec, size ImageSize, trim TrimOffset) (*Plan, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("图片尺寸必须为正数: %s", size)
	}
	if trim.X < 0 || trim.Y < 0 {
		return nil, fmt.Errorf("裁切偏移不能为负数: x=%g y=%g", trim.X, trim.Y)
	}

	cardW, cardH := size.Inches(page.ImageDPI)
	grid, err := ComputeGridCapacity(page, cardW, cardH)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Page:       page,
		Image:      size,
		CardWidth:  cardW,
		CardHeight: cardH,
		Trim:       trim,
		Grid:       grid,
		CutLines:   ComputeCutLines(page, cardW, cardH, grid, trim),
	}, nil
}

// PerPage returns the number of cards on a full page.
func (p *Plan) PerPage() int { return p.Grid.PerPage() }

// PageCount 返回 n 张卡牌所需的页数。
func (p *Plan) PageCount(n int) int {
	per := p.PerPage()
	if n <= 0 || per <= 0 {
		return 0
	}
	return (n + per - 1) / per
}

// LastPageCount 返回最后一页上的卡牌数量；整除时为满页。
func (p *Plan) LastPageCount(n int) int {
	per := p.PerPage()
	if n <= 0 || per <= 0 {
		return 0
	}
	if rem := n % per; rem != 0 {
		return rem
	}
	return per
}

// VerticalLines returns the cut lines running top to bottom.
func (p *Plan) VerticalLines() []CutLine { return p.linesOn(Vertical) }

// HorizontalLines returns the cut lines running left to right.
func (p *Plan) HorizontalLines() []CutLine { return p.linesOn(Horizontal) }

func (p *Plan) linesOn(axis Axis) []CutLine {
	var out []CutLine
	for _, ln := range p.CutLines {
		if ln.Axis() == axis {
			out = append(out, ln)
		}
	}
	return out
}

// ComputeGridCapacity 计算每行/每列可放的卡牌数，并把剩余空间平分到两侧页边距上。
// 任一方向放不下一张时返回 *LayoutError。
func ComputeGridCapacity(page PageSpec, imageW, imageH float64) (GridCapacity, error) {
	cols, marginX, err := fitAxis(Vertical, page.Width, page.MarginX, imageW)
	if err != nil {
		return GridCapacity{}, err
	}
	rows, marginY, err := fitAxis(Horizontal, page.Height, page.MarginY, imageH)
	if err != nil {
		return GridCapacity{}, err
	}
	return GridCapacity{
		CardsPerRow: cols,
		CardsPerCol: rows,
		CutMarginX:  marginX,
		CutMarginY:  marginY,
	}, nil
}

// fitAxis works on one axis; axis only labels the error.
func fitAxis(axis Axis, size, margin, image float64) (int, float64, error) {
	usable := size - 2*margin
	count := 0
	if image > 0 && usable > 0 {
		count = int(math.Floor(usable/image + fitEpsilon))
	}
	if count == 0 {
		return 0, 0, &LayoutError{Axis: axis, Usable: usable, Image: image}
	}
	rem := math.Max(usable-float64(count)*image, 0)
	return count, rem/2 + margin, nil
}

// ComputeCutLines 生成整页复用的裁切线：先竖线（贯穿页高），后横线（贯穿页宽）。
// 净切时每个方向输出 n+1 条线；带裁切偏移时每格输出两条内缩线，外边缘不画。
func ComputeCutLines(page PageSpec, imageW, imageH float64, grid GridCapacity, trim TrimOffset) []CutLine {
	lines := make([]CutLine, 0, cutLineCount(grid.CardsPerRow, trim.X)+cutLineCount(grid.CardsPerCol, trim.Y))

	vertical := func(x float64) CutLine { return CutLine{X0: x, Y0: 0, X1: x, Y1: page.Height} }
	horizontal := func(y float64) CutLine { return CutLine{X0: 0, Y0: y, X1: page.Width, Y1: y} }

	lines = appendAxisLines(lines, grid.CutMarginX, imageW, grid.CardsPerRow, trim.X, vertical)
	lines = appendAxisLines(lines, grid.CutMarginY, imageH, grid.CardsPerCol, trim.Y, horizontal)
	return lines
}

func appendAxisLines(lines []CutLine, start, step float64, cards int, trim float64, at func(float64) CutLine) []CutLine {
	prev := start
	if trim == 0 {
		lines = append(lines, at(prev))
	}
	for i := 0; i < cards; i++ {
		next := prev + step
		if trim > 0 {
			lines = append(lines, at(prev+trim), at(next-trim))
		} else {
			lines = append(lines, at(next))
		}
		prev = next
	}
	return lines
}

func cutLineCount(cards int, trim float64) int {
	if trim > 0 {
		return 2 * cards
	}
	return cards + 1
}
