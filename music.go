package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ebitengine/oto/v3"
	"github.com/llehouerou/go-mp3"
)

// MusicPlayer loops an optional mp3 the player drops into the config
// directory. No file, no music; every failure is silent.
type MusicPlayer struct {
	ctx    *oto.Context
	mu     sync.Mutex
	player *oto.Player
	dec    *musicDecoder
	stop   chan struct{}
	volume float64
}

func NewMusicPlayer(ctx *oto.Context, volume float64) *MusicPlayer {
	if ctx == nil {
		return nil
	}
	return &MusicPlayer{
		ctx:    ctx,
		volume: clampVolume(volume),
	}
}

func (m *MusicPlayer) SetVolume(volume float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.volume = clampVolume(volume)
	m.mu.Unlock()
}

func (m *MusicPlayer) StartCmd() tea.Cmd {
	return func() tea.Msg {
		m.Start()
		return nil
	}
}

func (m *MusicPlayer) Start() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.player != nil {
		m.mu.Unlock()
		return
	}
	dec, err := newMusicDecoder()
	if err != nil {
		m.mu.Unlock()
		DebugLogf("music unavailable: %v", err)
		return
	}
	vr := &volumeReader{
		reader:    dec,
		getVolume: m.volumeValue,
	}
	player := m.ctx.NewPlayer(vr)
	player.Play()
	m.player = player
	m.dec = dec
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !player.IsPlaying() {
					_ = dec.SeekToTime(0)
					player.Play()
				}
			}
		}
	}()
}

func (m *MusicPlayer) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.player != nil {
		_ = m.player.Close()
		m.player = nil
	}
	m.dec = nil
	m.mu.Unlock()
}

func (m *MusicPlayer) volumeValue() float64 {
	m.mu.Lock()
	volume := m.volume
	m.mu.Unlock()
	return volume
}

// musicDecoder serializes access to the mp3 decoder, which is shared by
// the playback reader and the loop goroutine.
type musicDecoder struct {
	mu  sync.Mutex
	dec *mp3.Decoder
}

func newMusicDecoder() (*musicDecoder, error) {
	path, err := musicPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &musicDecoder{dec: dec}, nil
}

func (d *musicDecoder) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.Read(p)
}

func (d *musicDecoder) SeekToTime(t time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.SeekToTime(t)
}

func (d *musicDecoder) SampleRate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.SampleRate()
}

// volumeReader scales decoded int16 samples by the live volume setting.
type volumeReader struct {
	reader    io.Reader
	getVolume func() float64
}

func (v *volumeReader) Read(p []byte) (int, error) {
	n, err := v.reader.Read(p)
	volume := clampVolume(v.getVolume())
	if volume >= 0.999 {
		return n, err
	}
	for i := 0; i+1 < n; i += 2 {
		sample := int16(binary.LittleEndian.Uint16(p[i:]))
		scaled := int16(float64(sample) * volume)
		binary.LittleEndian.PutUint16(p[i:], uint16(scaled))
	}
	return n, err
}
