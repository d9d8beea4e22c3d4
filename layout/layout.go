// Package layout places a row of equally sized sprites in a viewport.
package layout

// Offset is the world position of the first slot of a row.
type Offset struct {
	X, Y float32
}

// CenterRow returns the offset that centres count sprites of w x h laid side
// by side in a vw x vh viewport. Rows wider than the viewport get a negative
// X and run off both edges; nothing is clipped or wrapped.
func CenterRow(count uint32, w, h, vw, vh float32) Offset {
	return Offset{
		X: vw/2 - float32(count)*w/2,
		Y: vh/2 - h/2,
	}
}

// Slot returns the position of slot i in a row of sprites w wide.
func (o Offset) Slot(i int, w float32) (x, y float32) {
	return o.X + float32(i)*w, o.Y
}
