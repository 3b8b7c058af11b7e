package plan

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// nrgbaToRGBA premultiplies alpha; the canvas library expects
// premultiplied RGBA.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// Preview palette: the host renders these distinctly so the user can
// review before committing.
var (
	previewOriginal = color.NRGBA{R: 0xb8, G: 0xb8, B: 0xb8, A: 0xff}
	previewKept     = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	previewReplaced = color.NRGBA{R: 0x17, G: 0x46, B: 0xa2, A: 0xff}
	previewClosure  = color.NRGBA{R: 0xcc, G: 0x66, B: 0x00, A: 0xff}
	previewRoomFill = color.NRGBA{R: 0x22, G: 0x66, B: 0xcc, A: 0x30}
	previewRoomEdge = color.NRGBA{R: 0x22, G: 0x66, B: 0xcc, A: 0xa0}
)

// PreviewRenderer draws the input wireframe, the refined wireframe, gap
// closures, and detected rooms into one SVG or PNG preview.
type PreviewRenderer struct {
	Segments []Segment
	Result   *RefineResult
	Rooms    []RoomPolygon
	Scale    Scale

	Padding       float64           // padding in drawing pixels
	Resolution    canvas.Resolution // raster resolution (default 1 dot per px)
	GridSpacingPx float64           // background grid; 0 disables
	ShowOriginal  bool              // ghost the pre-refine geometry
}

// NewPreviewRenderer creates a renderer with the editor's preview defaults.
func NewPreviewRenderer(segments []Segment, result *RefineResult, rooms []RoomPolygon, scale Scale) *PreviewRenderer {
	return &PreviewRenderer{
		Segments:      segments,
		Result:        result,
		Rooms:         rooms,
		Scale:         scale,
		Padding:       40.0,
		Resolution:    canvas.DPMM(1.0),
		GridSpacingPx: 25.0,
		ShowOriginal:  true,
	}
}

// canvasRenderer is the subset both the svg and rasterizer backends share.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the preview as an SVG.
func (r *PreviewRenderer) RenderToSVG(w io.Writer) error {
	minX, minY, width, height := r.bounds()
	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, width, height)
	if err := svgRenderer.Close(); err != nil {
		return fmt.Errorf("closing SVG renderer: %w", err)
	}
	return nil
}

// RenderToPNG writes the preview as a PNG, with room areas labeled.
func (r *PreviewRenderer) RenderToPNG(w io.Writer) error {
	minX, minY, width, height := r.bounds()
	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, width, height)
	r.labelRooms(rast, minX, minY, height)
	return png.Encode(w, rast)
}

// bounds returns the world-space minimum corner and the padded image size.
func (r *PreviewRenderer) bounds() (minX, minY, width, height float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	grow := func(p Point2) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, s := range r.Segments {
		grow(s.A)
		grow(s.B)
	}
	if r.Result != nil {
		for _, s := range r.Result.Replacements {
			grow(s.A)
			grow(s.B)
		}
		for _, s := range r.Result.Closures {
			grow(s.A)
			grow(s.B)
		}
	}
	for _, room := range r.Rooms {
		for _, v := range room.Vertices {
			grow(v)
		}
	}
	if minX > maxX {
		// Nothing to draw; emit a small empty image.
		return 0, 0, 2 * r.Padding, 2 * r.Padding
	}
	return minX, minY, (maxX - minX) + 2*r.Padding, (maxY - minY) + 2*r.Padding
}

func (r *PreviewRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(p Point2) (float64, float64) {
		return (p.X - minX) + r.Padding, (p.Y - minY) + r.Padding
	}
	line := func(a, b Point2) *canvas.Path {
		p := &canvas.Path{}
		x1, y1 := toCanvas(a)
		x2, y2 := toCanvas(b)
		p.MoveTo(x1, y1)
		p.LineTo(x2, y2)
		return p
	}
	stroke := func(c color.NRGBA, width float64) canvas.Style {
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: canvas.Transparent}
		style.Stroke = canvas.Paint{Color: nrgbaToRGBA(c)}
		style.StrokeWidth = width
		return style
	}

	// Background grid, matching the editor's canvas grid.
	if r.GridSpacingPx > 0 {
		gridStyle := stroke(color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}, 0.5)
		for x := 0.0; x <= width; x += r.GridSpacingPx {
			p := &canvas.Path{}
			p.MoveTo(x, 0)
			p.LineTo(x, height)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
		for y := 0.0; y <= height; y += r.GridSpacingPx {
			p := &canvas.Path{}
			p.MoveTo(0, y)
			p.LineTo(width, y)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
	}

	// Room fills go under the wireframe.
	roomStyle := canvas.DefaultStyle
	roomStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(previewRoomFill)}
	roomStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(previewRoomEdge)}
	roomStyle.StrokeWidth = 1.0
	for _, room := range r.Rooms {
		p := &canvas.Path{}
		for i, v := range room.Vertices {
			x, y := toCanvas(v)
			if i == 0 {
				p.MoveTo(x, y)
			} else {
				p.LineTo(x, y)
			}
		}
		p.Close()
		renderer.RenderPath(p, roomStyle, canvas.Identity)
	}

	// Ghost of the input wireframe.
	if r.ShowOriginal {
		ghost := stroke(previewOriginal, 1.0)
		for _, s := range r.Segments {
			renderer.RenderPath(line(s.A, s.B), ghost, canvas.Identity)
		}
	}

	// Refined wireframe.
	kept := stroke(previewKept, 1.5)
	replaced := stroke(previewReplaced, 1.5)
	for _, s := range r.Segments {
		if r.Result != nil && r.Result.IsDeleted(s.ID) {
			continue
		}
		style := kept
		out := s
		if r.Result != nil {
			if repl, ok := r.Result.Replacements[s.ID]; ok {
				style = replaced
				out = repl
			}
		}
		renderer.RenderPath(line(out.A, out.B), style, canvas.Identity)
	}

	// Closure candidates, dashed so they read as suggestions.
	if r.Result != nil {
		closureStyle := stroke(previewClosure, 1.5)
		closureStyle.Dashes = []float64{4.0, 3.0}
		for _, c := range r.Result.Closures {
			renderer.RenderPath(line(c.A, c.B), closureStyle, canvas.Identity)
		}
	}
}

// labelRooms stamps each room's area in m² at its center. Canvas
// coordinates are y-up, the image is y-down, so the label row flips.
func (r *PreviewRenderer) labelRooms(img *rasterizer.Rasterizer, minX, minY, height float64) {
	dpmm := r.Resolution.DPMM()
	for _, room := range r.Rooms {
		cx, cy := 0.0, 0.0
		for _, v := range room.Vertices {
			cx += v.X
			cy += v.Y
		}
		cx /= float64(len(room.Vertices))
		cy /= float64(len(room.Vertices))

		label := fmt.Sprintf("%.1f m2", r.Scale.AreaM2(room.AreaPx2))
		px := int(((cx - minX) + r.Padding) * dpmm)
		py := int((height - ((cy - minY) + r.Padding)) * dpmm)
		drawLabel(img, px-len(label)*basicfont.Face7x13.Advance/2, py, label)
	}
}

func drawLabel(dst *rasterizer.Rasterizer, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
