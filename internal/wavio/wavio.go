// Package wavio reads and writes PCM WAV files as deinterleaved float64
// tracks.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-stemgate/stem"
)

// DefaultBitDepth is used when writing with a zero bit depth.
const DefaultBitDepth = 16

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

var (
	// ErrInvalidFile is returned when the input is not a RIFF/WAVE file.
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	// ErrUnsupportedFormat is returned for non-PCM encodings and bit depths
	// other than 16, 24 and 32.
	ErrUnsupportedFormat = errors.New("wavio: unsupported format")
)

// Format describes the layout of a WAV stream.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (stem.Track, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return stem.Track{}, Format{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	track, format, err := Decode(f)
	if err != nil {
		return stem.Track{}, Format{}, fmt.Errorf("%s: %w", path, err)
	}
	return track, format, nil
}

// Decode reads an entire PCM WAV stream. Samples are scaled to [-1, 1).
func Decode(r io.ReadSeeker) (stem.Track, Format, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return stem.Track{}, Format{}, ErrInvalidFile
	}

	format := Format{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return stem.Track{}, format, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if err := checkBitDepth(format.BitDepth); err != nil {
		return stem.Track{}, format, err
	}
	if format.Channels < 1 {
		return stem.Track{}, format, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, format.Channels)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return stem.Track{}, format, fmt.Errorf("decode pcm: %w", err)
	}

	scale := fullScale(format.BitDepth)
	frames := len(buf.Data) / format.Channels
	track := stem.Track{SampleRate: format.SampleRate, Channels: make([][]float64, format.Channels)}
	for ch := range track.Channels {
		samples := make([]float64, frames)
		for i := range samples {
			samples[i] = float64(buf.Data[i*format.Channels+ch]) / scale
		}
		track.Channels[ch] = samples
	}

	return track, format, nil
}

// WriteFile encodes track to path, creating or truncating the file. A zero
// bitDepth selects DefaultBitDepth.
func WriteFile(path string, track stem.Track, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close wav: %w", cerr)
		}
	}()

	return Encode(f, track, bitDepth)
}

// Encode writes track as integer PCM. Samples are clipped to [-1, 1].
func Encode(w io.WriteSeeker, track stem.Track, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if err := checkBitDepth(bitDepth); err != nil {
		return err
	}
	if err := track.Validate(); err != nil {
		return err
	}

	nc := track.NumChannels()
	scale := fullScale(bitDepth)
	lo, hi := -scale, scale-1

	data := make([]int, track.Len()*nc)
	for ch, samples := range track.Channels {
		for i, v := range samples {
			q := math.Round(v * scale)
			data[i*nc+ch] = int(math.Max(lo, math.Min(hi, q)))
		}
	}

	enc := wav.NewEncoder(w, track.SampleRate, bitDepth, nc, formatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nc,
			SampleRate:  track.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode pcm: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalise wav: %w", err)
	}
	return nil
}

func checkBitDepth(bits int) error {
	switch bits {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bits)
	}
}

func fullScale(bits int) float64 {
	return float64(int64(1) << (bits - 1))
}
