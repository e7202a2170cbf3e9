package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"

	"teatimer/internal/core/timer"
	"teatimer/resources"
)

const (
	speakerSampleRate = beep.SampleRate(44100)
	speakerBuffer     = 100 * time.Millisecond
	resampleQuality   = 4
)

// BeepBackend decodes FLAC assets and plays them through the system speaker.
type BeepBackend struct {
	sounds   *resources.Sounds
	initOnce sync.Once
	initErr  error
}

// NewBeepBackend creates a backend reading assets from sounds.
func NewBeepBackend(sounds *resources.Sounds) *BeepBackend {
	return &BeepBackend{sounds: sounds}
}

// Init opens the speaker. It runs once; later calls return the first result.
// Open calls it too, so calling Init at startup only moves the device setup
// out of the first playback.
func (backend *BeepBackend) Init() error {
	backend.initOnce.Do(func() {
		backend.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(speakerBuffer))
	})
	if backend.initErr != nil {
		return fmt.Errorf("init speaker: %w", backend.initErr)
	}
	return nil
}

// Preload reads the assets for sounds into the loader cache and returns the
// first error encountered. Every sound is attempted.
func (backend *BeepBackend) Preload(sounds ...timer.Sound) error {
	var first error
	for _, sound := range sounds {
		if _, err := backend.sounds.Sound(string(sound)); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open decodes the asset for sound.
func (backend *BeepBackend) Open(sound timer.Sound) (Stream, error) {
	if err := backend.Init(); err != nil {
		return nil, err
	}

	data, err := backend.sounds.Sound(string(sound))
	if err != nil {
		return nil, err
	}

	decoder, format, err := flac.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", resources.FileName(string(sound)), err)
	}

	return &beepStream{decoder: decoder, format: format}, nil
}

type beepStream struct {
	decoder beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	onEnd   func()
}

func (stream *beepStream) Play(onEnd func()) {
	stream.onEnd = onEnd
	stream.start()
}

func (stream *beepStream) Restart() error {
	speaker.Lock()
	err := stream.decoder.Seek(0)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("rewind stream: %w", err)
	}
	stream.start()
	return nil
}

func (stream *beepStream) start() {
	ctrl := &beep.Ctrl{
		Streamer: beep.Resample(resampleQuality, stream.format.SampleRate, speakerSampleRate, stream.decoder),
	}
	onEnd := stream.onEnd

	speaker.Lock()
	stream.ctrl = ctrl
	speaker.Unlock()

	// The callback runs on the mixer goroutine with the speaker locked.
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		if onEnd != nil {
			go onEnd()
		}
	})))
}

func (stream *beepStream) Stop() {
	speaker.Lock()
	if stream.ctrl != nil {
		stream.ctrl.Streamer = nil
	}
	speaker.Unlock()
}

func (stream *beepStream) Close() error {
	return stream.decoder.Close()
}
