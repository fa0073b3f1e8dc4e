package audio

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mjibson/go-dsp/wav"
	"gopkg.in/yaml.v3"
)

// AudioData represents one decoded capture: mono samples at native rate
type AudioData struct {
	PCM        []float64
	SampleRate int
}

// Duration is sample count over sample rate
func (a *AudioData) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.PCM)) / float64(a.SampleRate)
}

// Duration is a time.Duration that unmarshals from yaml strings like "30s".
// Bare integers are taken as nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath  string   `yaml:"ffmpeg_path"`
	FFprobePath string   `yaml:"ffprobe_path"`
	Timeout     Duration `yaml:"timeout"`
}

// DefaultDecoderConfig assumes the ffmpeg binaries are on PATH
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Timeout:     Duration(30 * time.Second),
	}
}

// Decoder decodes capture files to mono float64 PCM at their native sample
// rate. WAV files decode natively; everything else goes through ffmpeg, so
// the compressed formats the sensors upload (mp3, flac) work unchanged.
// Decoding is deterministic: the same file always yields the same samples.
type Decoder struct {
	config DecoderConfig
}

// NewDecoder creates a decoder with the given config
func NewDecoder(config DecoderConfig) *Decoder {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.FFprobePath == "" {
		config.FFprobePath = "ffprobe"
	}
	if config.Timeout <= 0 {
		config.Timeout = Duration(30 * time.Second)
	}
	return &Decoder{config: config}
}

// DecodeFile decodes one audio file. Zero-length and undecodable files
// return an error; callers count those as extraction failures.
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("zero-length file: %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return d.decodeWAV(path)
	}
	return d.decodeWithFFmpeg(ctx, path)
}

// decodeWAV reads a WAV file natively via go-dsp
func (d *Decoder) decodeWAV(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := wav.New(f)
	if err != nil {
		return nil, fmt.Errorf("wav decode %s: %w", path, err)
	}
	if w.SampleRate == 0 || w.NumChannels == 0 {
		return nil, fmt.Errorf("wav header invalid: %s", path)
	}

	floats, err := w.ReadFloats(w.Samples)
	if err != nil {
		return nil, fmt.Errorf("wav samples %s: %w", path, err)
	}
	if len(floats) == 0 {
		return nil, fmt.Errorf("wav has no samples: %s", path)
	}

	// Downmix interleaved channels to mono by averaging
	channels := int(w.NumChannels)
	frames := len(floats) / channels
	pcm := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(floats[i*channels+c])
		}
		pcm[i] = sum / float64(channels)
	}

	return &AudioData{PCM: pcm, SampleRate: int(w.SampleRate)}, nil
}

// decodeWithFFmpeg probes the native sample rate, then decodes to raw
// little-endian float64 mono on stdout
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, path string) (*AudioData, error) {
	sampleRate, err := d.probeSampleRate(ctx, path)
	if err != nil {
		return nil, err
	}

	decodeCtx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Timeout))
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-i", path,
		"-map", "0:a:0",
		"-ac", "1",
		"-f", "f64le",
		"pipe:1",
	}

	cmd := exec.CommandContext(decodeCtx, d.config.FFmpegPath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffmpeg failed for %s: %w, stderr: %s", path, err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg failed for %s: %w", path, err)
	}
	if len(output) < 8 {
		return nil, fmt.Errorf("ffmpeg produced no samples for %s", path)
	}

	pcm := make([]float64, len(output)/8)
	for i := range pcm {
		bits := binary.LittleEndian.Uint64(output[i*8:])
		pcm[i] = math.Float64frombits(bits)
	}

	return &AudioData{PCM: pcm, SampleRate: sampleRate}, nil
}

// probeSampleRate uses ffprobe to read the native sample rate of the first
// audio stream
func (d *Decoder) probeSampleRate(ctx context.Context, path string) (int, error) {
	probeCtx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Timeout))
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}

	cmd := exec.CommandContext(probeCtx, d.config.FFprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return 0, fmt.Errorf("ffprobe failed for %s: %w, stderr: %s", path, err, string(exitError.Stderr))
		}
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	if len(probe.Streams) == 0 || probe.Streams[0].CodecType != "audio" {
		return 0, fmt.Errorf("no audio stream in %s", path)
	}

	sampleRate, err := strconv.Atoi(probe.Streams[0].SampleRate)
	if err != nil || sampleRate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %q in %s", probe.Streams[0].SampleRate, path)
	}
	return sampleRate, nil
}
