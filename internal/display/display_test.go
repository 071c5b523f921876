package display

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestDraw(t *testing.T) {
	d := New()

	// single byte sprite 11110000 at the origin
	collision := d.Draw(0, 0, []byte{0xF0})
	assert.False(t, collision)

	for x := range 4 {
		assert.True(t, d.Pixel(x, 0))
	}
	for x := 4; x < 8; x++ {
		assert.False(t, d.Pixel(x, 0))
	}
}

func TestDrawCollision(t *testing.T) {
	d := New()

	// drawing the same sprite twice XORs it away and reports the
	// collision, a cleared display has no collisions
	assert.False(t, d.Draw(4, 2, []byte{0xF0, 0x90}))
	assert.True(t, d.Draw(4, 2, []byte{0xF0, 0x90}))

	if diff := cmp.Diff(Pixels{}, d.Pixels()); diff != "" {
		t.Errorf("display not cleared after double draw (-want +got):\n%s", diff)
	}
}

func TestDrawNoCollisionWithoutOverlap(t *testing.T) {
	d := New()

	assert.False(t, d.Draw(0, 0, []byte{0xF0}))
	// adjacent pixels of the same row, no overlap
	assert.False(t, d.Draw(4, 0, []byte{0xF0}))
}

func TestDrawWraparound(t *testing.T) {
	d := New()

	// 8 set pixels starting at x=62 wrap to the left edge,
	// the row at y=31 wraps to the top
	collision := d.Draw(62, 31, []byte{0xFF, 0xFF})
	assert.False(t, collision)

	for _, y := range []int{31, 0} {
		assert.True(t, d.Pixel(62, y))
		assert.True(t, d.Pixel(63, y))
		assert.True(t, d.Pixel(0, y))
		assert.True(t, d.Pixel(5, y))
		assert.False(t, d.Pixel(6, y))
	}
}

func TestClear(t *testing.T) {
	d := New()
	d.Draw(10, 10, []byte{0xFF})

	d.Clear()

	if diff := cmp.Diff(Pixels{}, d.Pixels()); diff != "" {
		t.Errorf("display not cleared (-want +got):\n%s", diff)
	}
}

func TestPixelsReturnsCopy(t *testing.T) {
	d := New()
	pixels := d.Pixels()
	pixels[0][0] = true

	assert.False(t, d.Pixel(0, 0))
}
