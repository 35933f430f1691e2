// Package compose places catalog images onto pages following a layout plan
// and decides when pages are started, flushed and overlaid with cut lines.
package compose

import (
	"fmt"
	"image"

	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

// Layer decides whether cut lines are painted beneath or above the images.
type Layer string

const (
	LayerTop    Layer = "top"
	LayerBottom Layer = "bottom"
)

// Catalog 提供固定尺寸的有序图片序列。Image 可以惰性解码，错误会原样返回给调用方。
type Catalog interface {
	ImageSize() layout.ImageSize
	Len() int
	Image(i int) (image.Image, error)
}

// CutlineConfig 中只有 Layer 与 Trim 影响排版，其余字段原样交给绘制端。
type CutlineConfig struct {
	Color       renderer.Color
	WidthPt     float64
	Layer       Layer
	Dashed      bool
	Trim        layout.TrimOffset
	RoundCorner float64
	Style       string
}

// LineStyle returns the pass-through drawing attributes.
func (c CutlineConfig) LineStyle() renderer.LineStyle {
	return renderer.LineStyle{
		Color:       c.Color,
		WidthPt:     c.WidthPt,
		Dashed:      c.Dashed,
		RoundCorner: c.RoundCorner,
		Style:       c.Style,
	}
}

// Options 控制排版方向以及页面完成回调。
type Options struct {
	RightToLeft bool
	// OnPage 在每次 FinishPage 成功后调用，page 从 1 开始，images 为该页图片数。
	OnPage func(page, images int)
}

// cursor 记录当前页内的列/行位置，每页开始时归零。
type cursor struct {
	col, row int
}

func (c cursor) fresh() bool { return c.col == 0 && c.row == 0 }

// Compose 按目录顺序逐行铺放图片：先计算一次排版规划，然后在满页或目录耗尽时输出页面。
// 空目录不产生任何页面。排版错误（*layout.LayoutError）在任何绘制调用之前返回。
func Compose(surface renderer.Surface, page layout.PageSpec, catalog Catalog, cfg CutlineConfig, opts Options) error {
	if err := validate(surface, catalog, cfg); err != nil {
		return err
	}
	plan, err := layout.NewPlan(page, catalog.ImageSize(), cfg.Trim)
	if err != nil {
		return err
	}
	return ComposePlan(surface, plan, catalog, cfg, opts)
}

// ComposePlan 使用调用方已经算好的规划铺放图片。
// 规划必须来自同一目录的图片尺寸与 cfg.Trim，否则返回错误且不绘制任何内容。
func ComposePlan(surface renderer.Surface, plan *layout.Plan, catalog Catalog, cfg CutlineConfig, opts Options) error {
	if err := validate(surface, catalog, cfg); err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan 不能为空")
	}
	if plan.Image != catalog.ImageSize() {
		return fmt.Errorf("规划的图片尺寸 %s 与目录尺寸 %s 不一致", plan.Image, catalog.ImageSize())
	}
	if plan.Trim != cfg.Trim {
		return fmt.Errorf("规划的裁切偏移 %+v 与裁切线配置 %+v 不一致", plan.Trim, cfg.Trim)
	}
	if plan.PerPage() <= 0 {
		return fmt.Errorf("规划的网格为空")
	}

	c := &composer{
		surface: surface,
		plan:    plan,
		cfg:     cfg,
		style:   cfg.LineStyle(),
		opts:    opts,
	}
	return c.run(catalog)
}

func validate(surface renderer.Surface, catalog Catalog, cfg CutlineConfig) error {
	if surface == nil {
		return fmt.Errorf("surface 不能为空")
	}
	if catalog == nil {
		return fmt.Errorf("catalog 不能为空")
	}
	if cfg.Layer != LayerTop && cfg.Layer != LayerBottom {
		return fmt.Errorf("未知的裁切线图层 %q（应为 top 或 bottom）", cfg.Layer)
	}
	return nil
}

type composer struct {
	surface renderer.Surface
	plan    *layout.Plan
	cfg     CutlineConfig
	style   renderer.LineStyle
	opts    Options

	cur    cursor
	page   int
	onPage int
}

func (c *composer) run(catalog Catalog) error {
	grid := c.plan.Grid
	for i := 0; i < catalog.Len(); i++ {
		img, err := catalog.Image(i)
		if err != nil {
			return fmt.Errorf("读取第 %d 张图片失败: %w", i+1, err)
		}

		if c.cur.fresh() {
			if err := c.surface.StartPage(); err != nil {
				return err
			}
			c.page++
			c.onPage = 0
			if c.cfg.Layer == LayerBottom {
				if err := c.drawCutLines(); err != nil {
					return err
				}
			}
		}

		x, y := c.cellPosition(c.cur)
		if err := c.surface.DrawImage(img, x, y, c.plan.CardWidth, c.plan.CardHeight); err != nil {
			return err
		}
		c.onPage++

		c.cur.col++
		if c.cur.col >= grid.CardsPerRow {
			c.cur.col = 0
			c.cur.row++
		}
		if c.cur.row >= grid.CardsPerCol {
			c.cur = cursor{}
			if err := c.finishPage(); err != nil {
				return err
			}
		}
	}

	// 剩余未满的一页
	if !c.cur.fresh() {
		return c.finishPage()
	}
	return nil
}

// cellPosition 计算格子左上角；从右到左只镜像列，行始终自上而下。
func (c *composer) cellPosition(cur cursor) (float64, float64) {
	grid := c.plan.Grid
	var x float64
	if c.opts.RightToLeft {
		x = c.plan.Page.Width - grid.CutMarginX - float64(cur.col+1)*c.plan.CardWidth
	} else {
		x = grid.CutMarginX + float64(cur.col)*c.plan.CardWidth
	}
	y := grid.CutMarginY + float64(cur.row)*c.plan.CardHeight
	return x, y
}

func (c *composer) finishPage() error {
	if c.cfg.Layer == LayerTop {
		if err := c.drawCutLines(); err != nil {
			return err
		}
	}
	if err := c.surface.FinishPage(); err != nil {
		return err
	}
	if c.opts.OnPage != nil {
		c.opts.OnPage(c.page, c.onPage)
	}
	return nil
}

func (c *composer) drawCutLines() error {
	for _, ln := range c.plan.CutLines {
		if err := c.surface.DrawLine(ln.X0, ln.Y0, ln.X1, ln.Y1, c.style); err != nil {
			return err
		}
	}
	return nil
}
