package memory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	m := New()

	installed := m.data[FontAddress : FontAddress+FontSize]
	if diff := cmp.Diff(defaultFont[:], installed); diff != "" {
		t.Errorf("font region mismatch (-want +got):\n%s", diff)
	}

	b, err := m.ReadByte(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestLoadROM(t *testing.T) {
	tests := []struct {
		name    string
		rom     []byte
		wantErr bool
	}{
		{"single byte", []byte{0x12}, false},
		{"maximum size", make([]byte, MaxROMSize), false},
		{"empty", nil, true},
		{"too large", make([]byte, MaxROMSize+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			err := m.LoadROM(tt.rom)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidROM))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadROMKeepsStateOnFailure(t *testing.T) {
	m := New()
	assert.NoError(t, m.LoadROM([]byte{0xAA, 0xBB}))

	assert.Error(t, m.LoadROM(make([]byte, MaxROMSize+1)))

	b, err := m.ReadByte(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)
}

func TestSetFont(t *testing.T) {
	m := New()

	assert.Error(t, m.SetFont(make([]byte, FontSize-1)))

	font := make([]byte, FontSize)
	font[0] = 0xAA
	assert.NoError(t, m.SetFont(font))

	b, err := m.ReadByte(FontAddress)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)
}

func TestReadWriteByte(t *testing.T) {
	m := New()

	assert.NoError(t, m.WriteByte(MaxAddress, 0x42))
	b, err := m.ReadByte(MaxAddress)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), b)

	_, err = m.ReadByte(MaxAddress + 1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.True(t, errors.Is(m.WriteByte(MaxAddress+1, 0), ErrOutOfBounds))
}

func TestReadWord(t *testing.T) {
	m := New()
	assert.NoError(t, m.WriteByte(0x200, 0xA2))
	assert.NoError(t, m.WriteByte(0x201, 0xF0))

	w, err := m.ReadWord(0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xA2F0), w)

	// the second byte of the word would be out of bounds
	_, err = m.ReadWord(MaxAddress)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestReset(t *testing.T) {
	m := New()
	font := make([]byte, FontSize)
	font[0] = 0x55
	assert.NoError(t, m.SetFont(font))
	assert.NoError(t, m.LoadROM([]byte{0x12, 0x34}))

	m.Reset()

	b, err := m.ReadByte(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)

	// the replacement font survives the reset
	b, err = m.ReadByte(FontAddress)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x55), b)
}
