package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将排版规划输出为 JSON，便于核对网格与裁切线坐标。
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
