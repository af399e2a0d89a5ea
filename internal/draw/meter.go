package draw

import "strings"

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Meter renders value in [0, 1] as a bar of width cells. Whole cells are
// solid; the cell holding the remainder gets a partial shade.
func Meter(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}

	filled := value * float64(width)
	full := int(filled)

	var sb strings.Builder
	sb.Grow(width * 3)
	for i := 0; i < width; i++ {
		switch {
		case i < full:
			sb.WriteRune(Shades[len(Shades)-1])
		case i == full:
			sb.WriteRune(ShadeLevel(filled - float64(full)))
		default:
			sb.WriteRune(Shades[0])
		}
	}
	return sb.String()
}

// Labeled renders "label [meter] text" with the label padded to labelWidth.
func Labeled(label string, labelWidth int, value float64, width int, text string) string {
	var sb strings.Builder
	sb.WriteString(label)
	for i := len(label); i < labelWidth; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteString(" [")
	sb.WriteString(Meter(value, width))
	sb.WriteString("] ")
	sb.WriteString(text)
	return sb.String()
}
