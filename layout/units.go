package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. The planner works in inches; every
// configured length is normalized through Length before reaching it.

// Unit represents the original unit of a length value as written in config.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, rejected for absolute lengths
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points (1/72 in); "pp" is accepted as an alias
	UnitPX               // pixels, resolved against a dpi
)

// Conversion constants.
const (
	MmPerInch = 25.4
	PtPerInch = 72.0
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// String formats the length the way it is written in config files.
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// Inches converts the length to inches. dpi is only consulted for UnitPX.
func (l Length) Inches(dpi int) (float64, error) {
	switch l.Unit {
	case UnitMM:
		return l.Value / MmPerInch, nil
	case UnitCM:
		return l.Value * 10 / MmPerInch, nil
	case UnitIN:
		return l.Value, nil
	case UnitPT:
		return l.Value / PtPerInch, nil
	case UnitPX:
		if dpi <= 0 {
			return 0, fmt.Errorf("px 长度 %s 需要正的 dpi，实际 %d", l, dpi)
		}
		return l.Value / float64(dpi), nil
	case UnitNone:
		if l.Value == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("长度 %g 缺少单位（mm/cm/in/pt/px）", l.Value)
	}
	return 0, fmt.Errorf("未知长度单位 %d", l.Unit)
}

// Points converts the length to typographic points.
func (l Length) Points(dpi int) (float64, error) {
	in, err := l.Inches(dpi)
	if err != nil {
		return 0, err
	}
	return in * PtPerInch, nil
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"pp", UnitPT}, {"px", UnitPX}}

// ParseLength parses a length string such as "210mm", "0.75pp" or "8.5in".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// MustParseLength is ParseLength for literals known to be valid.
func MustParseLength(value string) Length {
	l, err := ParseLength(value)
	if err != nil {
		panic(err)
	}
	return l
}
