package preprocess

import (
	"image"

	"github.com/juruen/quickdraw/model"
)

// Component is one 8-connected foreground region of a mask.
type Component struct {
	Box  model.BoundingBox
	Area int
}

// Location is the content region chosen for cropping.
type Location struct {
	Box        model.BoundingBox `json:"box"`
	Area       int               `json:"area"`
	Components int               `json:"components"`
	// Fallback is set when no region was significant and Box covers the
	// whole mask.
	Fallback bool `json:"fallback"`
}

// Locate picks the largest foreground component of mask and returns its
// tight bounding box. When there is no component, or the largest one is
// smaller than minArea pixels, the full mask is used instead.
func Locate(mask *image.Gray, minArea int) Location {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	full := model.BoundingBox{Width: w, Height: h}

	components := Components(mask)
	if len(components) == 0 {
		return Location{Box: full, Fallback: true}
	}

	dominant := components[0]
	for _, c := range components[1:] {
		if c.Area > dominant.Area {
			dominant = c
		}
	}

	loc := Location{Box: dominant.Box, Area: dominant.Area, Components: len(components)}
	if dominant.Area < minArea || dominant.Box.Empty() || !dominant.Box.Within(w, h) {
		loc.Box = full
		loc.Fallback = true
	}
	return loc
}

// Components labels the 8-connected foreground regions of mask in raster
// order of their first pixel.
func Components(mask *image.Gray) []Component {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	visited := make([]bool, w*h)
	var components []Component
	var stack []int

	for start := 0; start < w*h; start++ {
		if visited[start] || grayAt(mask, start%w, start/w) == 0 {
			continue
		}

		visited[start] = true
		stack = append(stack[:0], start)
		minX, minY, maxX, maxY := w, h, -1, -1
		area := 0

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			area++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					j := ny*w + nx
					if !visited[j] && grayAt(mask, nx, ny) != 0 {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}

		components = append(components, Component{
			Box:  model.BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1},
			Area: area,
		})
	}
	return components
}
