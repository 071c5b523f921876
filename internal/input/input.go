// Package input implements the 16-key hexadecimal keypad state.
package input

// NumKeys is the number of keys on the CHIP-8 keypad, 0x0 to 0xF.
const NumKeys = 16

// Keypad holds the pressed state of all keys. It is a plain data
// model, synchronization between the consumer writing key events and
// the CPU reading them is handled by the emulator owning the keypad.
type Keypad struct {
	keys [NumKeys]bool
}

// New creates a new keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Set sets or clears the pressed state of a key. Only the low nibble
// of the key code is significant.
func (k *Keypad) Set(key byte, pressed bool) {
	k.keys[key&0x0F] = pressed
}

// Pressed returns whether a key is currently pressed. Only the low
// nibble of the key code is significant.
func (k *Keypad) Pressed(key byte) bool {
	return k.keys[key&0x0F]
}

// FirstPressed returns the lowest pressed key code, or false if no key
// is pressed. The WaitingForKey state of the CPU resumes on it.
func (k *Keypad) FirstPressed() (byte, bool) {
	for key, pressed := range k.keys {
		if pressed {
			return byte(key), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = [NumKeys]bool{}
}
