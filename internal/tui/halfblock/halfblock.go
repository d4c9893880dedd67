// Package halfblock renders images as terminal art using half-block characters.
package halfblock

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// alphaThreshold is the opacity below which a pixel counts as transparent.
const alphaThreshold = 40

// Fit returns the largest cell size within maxCols x maxRows that keeps the
// aspect ratio of img. One cell shows two vertically stacked pixels.
func Fit(img image.Image, maxCols, maxRows int) (cols, rows int) {
	b := img.Bounds()
	if b.Empty() || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}

	cols = maxCols
	rows = (cols*b.Dy()/b.Dx() + 1) / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * b.Dx() / b.Dy()
	}
	return max(cols, 1), max(rows, 1)
}

// Render draws img into cols x rows cells (▀▄█ with true colors).
func Render(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	// Scale to the target size (rows*2 because half-blocks)
	scaled := image.NewNRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	var result strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := scaled.NRGBAAt(col, row*2)
			bottom := scaled.NRGBAAt(col, row*2+1)
			result.WriteString(cell(top, bottom))
		}
		if row < rows-1 {
			result.WriteRune('\n')
		}
	}
	return result.String()
}

func cell(top, bottom color.NRGBA) string {
	topOn := top.A > alphaThreshold
	bottomOn := bottom.A > alphaThreshold

	switch {
	case topOn && bottomOn && top == bottom:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("█")
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
