package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/elastisim/internal/mesh"
	"github.com/san-kum/elastisim/internal/viz"
)

// FrameName is the file name of the i-th saved frame.
func FrameName(i int, ext string) string {
	return fmt.Sprintf("frame_%05d.%s", i, ext)
}

// WriteFrame writes one SVG document into dir as the i-th frame and returns its path.
func WriteFrame(dir string, i int, svg string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FrameName(i, "svg"))
	return path, os.WriteFile(path, []byte(svg), 0644)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	writeHeader(&sb, width, height, theme)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Mesh)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// MeshToSVG projects the mesh edges through cam onto a width x height image.
func MeshToSVG(m *mesh.Mesh, cam *viz.Camera, width, height int, theme viz.Theme) string {
	var sb strings.Builder
	writeHeader(&sb, float64(width), float64(height), theme)
	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1\" fill=\"none\">\n", theme.Mesh)

	for _, e := range m.Edges() {
		x1, y1, d1, v1 := cam.Project(m.Vertex(e.A), width, height)
		x2, y2, d2, v2 := cam.Project(m.Vertex(e.B), width, height)
		if d1 == 0 || d2 == 0 || !(v1 || v2) {
			continue
		}
		fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x1, y1, x2, y2)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height float64, theme viz.Theme) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, theme.Background)
}
