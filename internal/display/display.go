// Package display implements the monochrome 64x32 pixel frame buffer.
package display

const (
	// Width of the display in pixels.
	Width = 64

	// Height of the display in pixels.
	Height = 32
)

// Pixels is the row-major pixel grid of the display.
type Pixels [Height][Width]bool

// Display is the XOR-drawing frame buffer of the machine. Coordinates
// wrap around at the display edges, no pixel is ever written outside
// the grid.
type Display struct {
	pixels Pixels
}

// New creates a new cleared display.
func New() *Display {
	return &Display{}
}

// Clear sets all pixels to off.
func (d *Display) Clear() {
	d.pixels = Pixels{}
}

// Draw XORs a sprite into the grid at the given coordinates. Every
// sprite byte is one row of 8 pixels, the most significant bit is the
// leftmost pixel. It reports whether any pixel was flipped from on to
// off, the collision condition of the DRW instruction.
func (d *Display) Draw(x, y byte, sprite []byte) bool {
	collision := false

	for row, spriteByte := range sprite {
		py := (int(y) + row) % Height

		for col := range 8 {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}

			px := (int(x) + col) % Width
			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}

	return collision
}

// Pixel returns the state of a single pixel, wrapping coordinates the
// same way Draw does.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y%Height][x%Width]
}

// Pixels returns a copy of the pixel grid.
func (d *Display) Pixels() Pixels {
	return d.pixels
}
