package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Output sample rate of the beeper.
	///
	sampleRate = 44100

	/// Samples in one 60 Hz video frame.
	///
	frameSamples = sampleRate / 60

	/// Square wave period in samples (420 Hz). A frame holds exactly 7
	/// periods so queued frames join without a click.
	///
	tonePeriod = 105

	/// Distance of the wave from the silence level.
	///
	toneVolume = 24
)

/// Beeper plays a square wave while the CHIP-8 sound timer is running.
///
type Beeper struct {
	id   sdl.AudioDeviceID
	tone []byte
}

/// NewBeeper opens the default audio device.
///
func NewBeeper() (*Beeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var actual sdl.AudioSpec

	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	b := &Beeper{
		id:   id,
		tone: make([]byte, frameSamples),
	}

	// one frame of square wave around the silence level
	for i := range b.tone {
		if i%tonePeriod < tonePeriod/2 {
			b.tone[i] = actual.Silence + toneVolume
		} else {
			b.tone[i] = actual.Silence - toneVolume
		}
	}

	sdl.PauseAudioDevice(id, false)

	return b, nil
}

/// Update is called once per video frame. While on it keeps about two
/// frames of tone queued; when off the queue is dropped so the beep stops
/// at once.
///
func (b *Beeper) Update(on bool) error {
	if !on {
		sdl.ClearQueuedAudio(b.id)
		return nil
	}

	if sdl.GetQueuedAudioSize(b.id) > uint32(len(b.tone)) {
		return nil
	}

	return sdl.QueueAudio(b.id, b.tone)
}

/// Close the audio device.
///
func (b *Beeper) Close() {
	sdl.CloseAudioDevice(b.id)
}
