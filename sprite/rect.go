package sprite

// Rect is a pixel-space rectangle with a top-left origin.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// TexCoords is a rectangle in normalized [0,1] texture space.
// Top is the smaller v; the vertical flip happens at mesh generation.
type TexCoords struct {
	Left, Top, Right, Bottom float32
}

// Width returns the normalized width.
func (t TexCoords) Width() float32 {
	return t.Right - t.Left
}

// Height returns the normalized height.
func (t TexCoords) Height() float32 {
	return t.Bottom - t.Top
}

// Area returns the normalized area covered by the rectangle.
func (t TexCoords) Area() float32 {
	return t.Width() * t.Height()
}

// Lerp maps a point (u, v) of the unit square into this rectangle.
func (t TexCoords) Lerp(u, v float32) (float32, float32) {
	return t.Left + u*t.Width(), t.Top + v*t.Height()
}

// PixelsToTexCoords normalizes px against a sheet of sheetW x sheetH pixels.
func PixelsToTexCoords(px Rect, sheetW, sheetH float32) TexCoords {
	return TexCoords{
		Left:   px.X / sheetW,
		Top:    px.Y / sheetH,
		Right:  (px.X + px.Width) / sheetW,
		Bottom: (px.Y + px.Height) / sheetH,
	}
}

// TexCoordsToPixels is the inverse of PixelsToTexCoords.
func TexCoordsToPixels(tc TexCoords, sheetW, sheetH float32) Rect {
	return Rect{
		X:      tc.Left * sheetW,
		Y:      tc.Top * sheetH,
		Width:  tc.Width() * sheetW,
		Height: tc.Height() * sheetH,
	}
}
