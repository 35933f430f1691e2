package layout

import "fmt"

// LayoutError 表示图片在某个方向上一张都放不下，属于不可恢复的配置错误。
type LayoutError struct {
	Axis   Axis
	Usable float64 // 可用长度（in）
	Image  float64 // 图片长度（in）
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("image too large for page: %s usable %.4gin < image %.4gin", e.Axis, e.Usable, e.Image)
}
