package binding

import (
	"fmt"
	"regexp"
	"strings"
)

// exprPattern 匹配 ${name} 与 ${name%03d} 两种写法。
var exprPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(%[^}]+)?\}`)

// Expand 将文本中的 ${name} 替换为 vars 中的值，可选的 printf 动词控制格式。
// 未知变量保留原占位符。
func Expand(pattern string, vars map[string]any) string {
	return exprPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		val, ok := vars[groups[1]]
		if !ok {
			return match
		}
		if verb := groups[2]; verb != "" {
			return fmt.Sprintf(verb, val)
		}
		return fmt.Sprint(val)
	})
}

// Placeholders 返回模板中引用到的变量名（按出现顺序去重）。
func Placeholders(pattern string) []string {
	var names []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(pattern, -1) {
		name := strings.TrimSpace(groups[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
