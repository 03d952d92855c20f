package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/shared"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultTick       = 250 * time.Millisecond

	maxAudioBytes   = 64 << 20
	resampleQuality = 4
)

// sink is where decoded audio goes. The system speaker in production.
type sink interface {
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerSink struct{}

func (speakerSink) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerSink) Clear()                  { speaker.Clear() }
func (speakerSink) Lock()                   { speaker.Lock() }
func (speakerSink) Unlock()                 { speaker.Unlock() }

// memFile lets the mp3 decoder seek in a fully buffered body.
type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

// Speaker is a [player.Resource] that streams mp3 or wav sources to the system speaker.
//
// Sources are fetched and decoded in the background; a Play request made while loading is honoured
// once the metadata is available. Assigning a new source cancels the pending fetch.
type Speaker struct {
	mu         sync.Mutex
	out        sink
	client     *http.Client
	sampleRate beep.SampleRate
	logger     *log.Logger
	events     chan player.ResourceEvent

	gen      int
	cancel   context.CancelFunc
	source   string
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	gain     float64
	wantPlay bool
	paused   bool
	finished bool

	stop chan struct{}
	once sync.Once
}

// NewSpeaker initializes the system speaker and returns a [Speaker] emitting timeupdate every
// cfg.Tick while playing.
func NewSpeaker(cfg shared.AudioConfig, client *http.Client, logger *log.Logger) (*Speaker, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if sr <= 0 {
		sr = DefaultSampleRate
	}

	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	return newSpeaker(speakerSink{}, sr, cfg.Tick, client, logger), nil
}

func newSpeaker(out sink, sr beep.SampleRate, tick time.Duration, client *http.Client, logger *log.Logger) *Speaker {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	if tick <= 0 {
		tick = DefaultTick
	}

	s := &Speaker{
		out:        out,
		client:     client,
		sampleRate: sr,
		logger:     shared.WithLogger(logger, "component", "speaker"),
		events:     make(chan player.ResourceEvent, 256),
		gain:       1,
		paused:     true,
		stop:       make(chan struct{}),
	}

	go s.ticker(tick)
	return s
}

func (s *Speaker) SetSource(src string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.release()

	s.source = src
	s.paused = true
	s.wantPlay = false
	s.finished = false
	if src == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.load(ctx, s.gen, src)
}

func (s *Speaker) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return fmt.Errorf("%w: nothing to play", shared.ErrNoSource)
	}
	if s.stream == nil {
		s.wantPlay = true
		return nil
	}
	if !s.paused {
		return nil
	}

	if s.finished {
		s.out.Lock()
		err := s.stream.Seek(0)
		s.out.Unlock()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrPlaybackRejected, err)
		}
		s.finished = false
		s.start(s.gen)
	}

	s.setPaused(false)
	s.emit(player.EventPlay, nil)
	return nil
}

func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wantPlay = false
	if s.stream == nil || s.paused {
		return
	}
	s.setPaused(true)
	s.emit(player.EventPause, nil)
}

func (s *Speaker) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Speaker) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return 0
	}
	s.out.Lock()
	p := s.stream.Position()
	s.out.Unlock()
	return s.format.SampleRate.D(p).Seconds()
}

func (s *Speaker) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return 0
	}
	return s.format.SampleRate.D(s.stream.Len()).Seconds()
}

func (s *Speaker) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return
	}

	n := s.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = max(0, min(n, s.stream.Len()-1))

	s.out.Lock()
	err := s.stream.Seek(n)
	s.out.Unlock()
	if err != nil {
		s.logger.Warn("seek failed", "source", s.source, "seconds", seconds, "err", err)
		return
	}
	s.emit(player.EventTimeUpdate, nil)
}

func (s *Speaker) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gain = v
	if s.volume == nil {
		return
	}
	s.out.Lock()
	s.volume.Volume = gainToVolume(v)
	s.volume.Silent = v <= 0
	s.out.Unlock()
}

func (s *Speaker) Events() <-chan player.ResourceEvent { return s.events }

// Close stops playback and the tick loop.
func (s *Speaker) Close() error {
	s.once.Do(func() { close(s.stop) })
	s.SetSource("")
	return nil
}

func (s *Speaker) load(ctx context.Context, gen int, src string) {
	stream, format, err := s.open(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		if stream != nil {
			stream.Close()
		}
		return
	}

	if err != nil {
		s.logger.Error("failed to load source", "source", src, "err", err)
		s.paused = true
		s.emit(player.EventError, err)
		return
	}

	s.stream = stream
	s.format = format
	s.start(gen)
	s.emit(player.EventLoadedMetadata, nil)

	if s.wantPlay {
		s.wantPlay = false
		s.setPaused(false)
		s.emit(player.EventPlay, nil)
	}
}

// start hands the stream to the sink, paused. Callers hold s.mu.
func (s *Speaker) start(gen int) {
	var streamer beep.Streamer = s.stream
	if s.format.SampleRate != s.sampleRate {
		streamer = beep.Resample(resampleQuality, s.format.SampleRate, s.sampleRate, streamer)
	}

	s.volume = &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   gainToVolume(s.gain),
		Silent:   s.gain <= 0,
	}
	s.ctrl = &beep.Ctrl{Streamer: s.volume, Paused: true}

	// The callback runs with the sink locked.
	s.out.Play(beep.Seq(s.ctrl, beep.Callback(func() { go s.onEnd(gen) })))
}

// release drops the current stream. Callers hold s.mu.
func (s *Speaker) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.ctrl != nil {
		s.out.Clear()
	}
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			s.logger.Debug("failed to close stream", "err", err)
		}
	}
	s.stream = nil
	s.ctrl = nil
	s.volume = nil
	s.format = beep.Format{}
}

func (s *Speaker) setPaused(paused bool) {
	s.paused = paused
	if s.ctrl == nil {
		return
	}
	s.out.Lock()
	s.ctrl.Paused = paused
	s.out.Unlock()
}

func (s *Speaker) onEnd(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.finished {
		return
	}
	s.finished = true
	s.paused = true
	s.emit(player.EventPause, nil)
	s.emit(player.EventEnded, nil)
}

func (s *Speaker) ticker(tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.mu.Lock()
			if !s.paused && !s.finished && s.stream != nil {
				s.emit(player.EventTimeUpdate, nil)
			}
			s.mu.Unlock()
		}
	}
}

// emit never blocks. Callers hold s.mu.
func (s *Speaker) emit(t player.EventType, err error) {
	select {
	case s.events <- player.ResourceEvent{Type: t, Source: s.source, Err: err}:
	default:
		s.logger.Debug("dropping resource event", "type", t)
	}
}

func (s *Speaker) open(ctx context.Context, src string) (beep.StreamSeekCloser, beep.Format, error) {
	data, contentType, err := s.fetch(ctx, src)
	if err != nil {
		return nil, beep.Format{}, err
	}

	switch mediaType(src, contentType) {
	case "mp3":
		return mp3.Decode(memFile{bytes.NewReader(data)})
	case "wav":
		return wav.Decode(bytes.NewReader(data))
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedMedia, src)
	}
}

// fetch reads an http(s) URL or a local path (optionally file://) into memory.
func (s *Speaker) fetch(ctx context.Context, src string) ([]byte, string, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read audio file: %w", err)
		}
		return data, "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: audio fetch returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// mediaType picks a decoder from the URL extension, then the content type.
func mediaType(src, contentType string) string {
	p := src
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".mp3":
		return "mp3"
	case ".wav", ".wave":
		return "wav"
	}

	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return "wav"
	}
	return ""
}

// gainToVolume converts a linear gain to the base-2 exponent used by [effects.Volume].
func gainToVolume(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log2(v)
}
