package bot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/hraban/opus.v2"

	"github.com/archeon-bot/archeon/internal/music"
)

// Discord voice expects 48 kHz stereo opus in 20 ms frames.
const (
	audioSampleRate  = 48000
	audioChannels    = 2
	audioFrameSize   = 960 // samples per channel per frame
	audioFrameBytes  = audioFrameSize * audioChannels * 2
	maxOpusFrameSize = 4000
	pausePollDelay   = 20 * time.Millisecond
)

// voiceSink is the slice of the voice connection the streaming loop
// needs: the speaking flag and the opus packet channel.
type voiceSink interface {
	Speaking(flag bool) error
	Send(packet []byte)
}

// discordVoiceSink adapts a discordgo voice connection to voiceSink.
type discordVoiceSink struct {
	vc *discordgo.VoiceConnection
}

func (s discordVoiceSink) Speaking(flag bool) error { return s.vc.Speaking(flag) }

func (s discordVoiceSink) Send(packet []byte) { s.vc.OpusSend <- packet }

// streamer pipes one track at a time through ffmpeg into the guild's
// voice connection, applying a software gain before opus encoding. It
// implements music.AudioOutput.
type streamer struct {
	ffmpegPath string
	voice      func() *discordgo.VoiceConnection
	logger     *slog.Logger

	mu      sync.Mutex
	volume  int
	paused  bool
	stopped bool
	cmd     *exec.Cmd
}

// newStreamer creates a streamer for one guild. The voice connection is
// resolved lazily at play time.
func newStreamer(ffmpegPath string, voice func() *discordgo.VoiceConnection, volume int, logger *slog.Logger) *streamer {
	if logger == nil {
		logger = slog.Default()
	}
	if volume < 0 || volume > maxVolumePercent {
		volume = defaultVolumePercent
	}
	return &streamer{
		ffmpegPath: ffmpegPath,
		voice:      voice,
		logger:     logger,
		volume:     volume,
	}
}

// Play starts the ffmpeg pipeline for the locator. Completion is
// reported once from the streaming goroutine: nil after EOF or an
// explicit Stop, the pipeline error otherwise.
func (st *streamer) Play(locator string, onComplete func(err error)) error {
	vc := st.voice()
	if vc == nil {
		return fmt.Errorf("not connected to a voice channel")
	}

	cmd := exec.Command(st.ffmpegPath,
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-loglevel", "warning",
		"-i", locator,
		"-vn",
		"-f", "s16le",
		"-ar", fmt.Sprint(audioSampleRate),
		"-ac", fmt.Sprint(audioChannels),
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	st.mu.Lock()
	st.cmd = cmd
	st.stopped = false
	st.paused = false
	st.mu.Unlock()

	go st.stream(discordVoiceSink{vc: vc}, stdout, cmd.Wait, func() { st.kill(cmd) }, onComplete)
	return nil
}

// stream is the per-track pipeline goroutine. The speaking flag is
// cleared before onComplete fires, so a session advancing to the next
// track cannot have its fresh speaking state undone by this stream's
// teardown.
func (st *streamer) stream(sink voiceSink, pcmIn io.Reader, wait func() error, kill func(), onComplete func(err error)) {
	encoder, err := opus.NewEncoder(audioSampleRate, audioChannels, opus.AppAudio)
	if err != nil {
		kill()
		_ = wait()
		onComplete(fmt.Errorf("failed to create opus encoder: %w", err))
		return
	}

	if speakErr := sink.Speaking(true); speakErr != nil {
		st.logger.Debug("failed to set speaking state", slog.Any("error", speakErr))
	}
	finish := func(streamErr error) {
		if speakErr := sink.Speaking(false); speakErr != nil {
			st.logger.Debug("failed to clear speaking state", slog.Any("error", speakErr))
		}
		onComplete(streamErr)
	}

	raw := make([]byte, audioFrameBytes)
	pcm := make([]int16, audioFrameSize*audioChannels)
	encoded := make([]byte, maxOpusFrameSize)

	for {
		if st.isStopped() {
			_ = wait()
			finish(nil)
			return
		}
		if st.isPaused() {
			time.Sleep(pausePollDelay)
			continue
		}

		if _, readErr := io.ReadFull(pcmIn, raw); readErr != nil {
			waitErr := wait()
			switch {
			case st.isStopped():
				finish(nil)
			case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
				// Clean end of stream unless ffmpeg itself failed.
				finish(waitErr)
			default:
				finish(fmt.Errorf("failed to read audio stream: %w", readErr))
			}
			return
		}

		applyGain(raw, pcm, st.Volume())

		n, encErr := encoder.Encode(pcm, encoded)
		if encErr != nil {
			kill()
			_ = wait()
			if st.isStopped() {
				finish(nil)
			} else {
				finish(fmt.Errorf("failed to encode audio frame: %w", encErr))
			}
			return
		}

		packet := make([]byte, n)
		copy(packet, encoded[:n])
		sink.Send(packet)
	}
}

// applyGain decodes little-endian s16 samples from raw into pcm, scaling
// each by gain percent and clamping to the int16 range.
func applyGain(raw []byte, pcm []int16, gain int) {
	for i := range pcm {
		sample := int32(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		sample = sample * int32(gain) / 100
		if sample > 32767 {
			sample = 32767
		} else if sample < -32768 {
			sample = -32768
		}
		pcm[i] = int16(sample)
	}
}

// Stop kills the active pipeline; the pending completion fires with nil.
func (st *streamer) Stop() {
	st.mu.Lock()
	st.stopped = true
	st.paused = false
	cmd := st.cmd
	st.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			st.logger.Debug("failed to kill ffmpeg", slog.Any("error", err))
		}
	}
}

// Pause suspends frame delivery without tearing down ffmpeg.
func (st *streamer) Pause() {
	st.mu.Lock()
	st.paused = true
	st.mu.Unlock()
}

// Resume continues frame delivery.
func (st *streamer) Resume() {
	st.mu.Lock()
	st.paused = false
	st.mu.Unlock()
}

// SetVolume sets the software gain in percent, clamped to 0-200.
func (st *streamer) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > maxVolumePercent {
		percent = maxVolumePercent
	}
	st.mu.Lock()
	st.volume = percent
	st.mu.Unlock()
}

// Volume returns the current gain in percent.
func (st *streamer) Volume() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.volume
}

// Close stops any active stream.
func (st *streamer) Close() {
	st.Stop()
}

func (st *streamer) isStopped() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stopped
}

func (st *streamer) isPaused() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.paused
}

// kill terminates the pipeline process if it is still running.
func (st *streamer) kill(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			st.logger.Debug("failed to kill ffmpeg", slog.Any("error", err))
		}
	}
}

// Interface guard.
var _ music.AudioOutput = (*streamer)(nil)
