package gui

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleFreq = 48000

	// beepFreq is the frequency of the square wave played while the
	// sound timer is active.
	beepFreq = 440

	// beepVolume is the amplitude around the silence value.
	beepVolume = 24

	// beepBufferLength holds a quarter second of samples. The render
	// loop tops up the queue well before it drains, small enough to
	// stop quickly after a sound stop event.
	beepBufferLength = sampleFreq / 4
)

// setupAudio opens the audio device and precomputes one buffer of the
// beep square wave. The device starts paused, the emulator's sound
// events unpause it.
func (g *GUI) setupAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     sampleFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var err error
	g.audio, err = sdl.OpenAudioDevice("", false, spec, &g.audioSpec, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}

	// square wave with half a period high, half a period low
	g.beep = make([]byte, beepBufferLength)
	period := int(g.audioSpec.Freq) / beepFreq
	for i := range g.beep {
		if i%period < period/2 {
			g.beep[i] = g.audioSpec.Silence + beepVolume
		} else {
			g.beep[i] = g.audioSpec.Silence - beepVolume
		}
	}

	// sound events toggle playback, the queue is filled by the render
	// loop
	if err := g.emu.SetSoundHandler(func(active bool) {
		sdl.PauseAudioDevice(g.audio, !active)
	}); err != nil {
		return fmt.Errorf("registering sound handler: %w", err)
	}

	sdl.PauseAudioDevice(g.audio, true)
	return nil
}

// queueBeep keeps the audio queue filled while sound is active and
// drops pending samples once it stops.
func (g *GUI) queueBeep(active bool) {
	if !active {
		sdl.ClearQueuedAudio(g.audio)
		return
	}

	if sdl.GetQueuedAudioSize(g.audio) >= beepBufferLength {
		return
	}
	if err := sdl.QueueAudio(g.audio, g.beep); err != nil {
		g.logger.Debug("Queueing audio failed", log.Err(err))
	}
}
