package ooxml

// units.go — OOXML unit conversions and value mapping.
//
// OOXML stores lengths in twips (1/20 pt) and font sizes in half-points.
// Every helper here returns ok=false instead of a zero value when the input
// is missing or not a finite number, so "absent" never turns into "0".

import (
	"math"
	"strconv"
	"strings"
)

// autoLineUnit is the denominator of an auto line rule: line="240" is single spacing.
const autoLineUnit = 240

// TwipsToPt converts a twips attribute value to points.
func TwipsToPt(s string) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	return v / 20, true
}

// HalfPointsToPt converts a half-point attribute value (w:sz) to points.
func HalfPointsToPt(s string) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	return v / 2, true
}

// FormatPt renders v as a CSS point length with at most two decimals and no
// trailing zeros: 12 → "12pt", 10.5 → "10.5pt".
func FormatPt(v float64) string {
	return formatNumber(v) + "pt"
}

// MapAlignment maps a w:jc value onto a CSS text-align keyword.
func MapAlignment(jc string) string {
	switch jc {
	case "center":
		return "center"
	case "right":
		return "right"
	case "both":
		return "justify"
	default:
		return "left"
	}
}

// LineHeight builds the CSS line-height value for a w:spacing line/lineRule
// pair. An empty rule means "auto", where line is in 240ths of a line.
func LineHeight(line float64, rule string) (string, bool) {
	if rule == "" || rule == "auto" {
		v := round2(line / autoLineUnit)
		if !isPositive(v) {
			return "", false
		}
		return formatNumber(v), true
	}
	// exact / atLeast: line is in twips
	v := line / 20
	if !isPositive(v) {
		return "", false
	}
	return FormatPt(v), true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	v = round2(v)
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
