// Package pcm holds the small amount of audio handling the recorder needs:
// framing captured 16-bit PCM as WAV, a level meter and silent probe clips.
package pcm

import (
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// DefaultSampleRate is the capture rate used by the client.
	DefaultSampleRate = 16000

	bitDepth = 16
	// audioFormat 1 is uncompressed PCM in the WAV header.
	audioFormat = 1
)

// EncodeWAV frames mono 16-bit samples as a WAV clip.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, errors.New("pcm: invalid sample rate")
	}

	out := &seekBuffer{}
	enc := wav.NewEncoder(out, sampleRate, bitDepth, 1, audioFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i := range samples {
		buf.Data[i] = int(samples[i])
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Silence returns a WAV clip of the given length containing only zeros. It is
// used to probe speech credentials with a real but trivial request.
func Silence(ms, sampleRate int) ([]byte, error) {
	n := sampleRate * ms / 1000
	return EncodeWAV(make([]int16, n), sampleRate)
}

// Level returns the normalized average amplitude of a frame in [0, 1]. The
// average is boosted by 1.5 so ordinary speech moves the meter visibly.
func Level(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, v := range frame {
		if v < 0 {
			sum -= float64(v)
		} else {
			sum += float64(v)
		}
	}
	avg := sum / float64(len(frame))
	level := avg / 32768 * 1.5
	if level > 1 {
		return 1
	}
	return level
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, v := range in {
		// little-endian
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

// BytesToSamples is the inverse of SamplesToBytes. A trailing odd byte is
// dropped.
func BytesToSamples(in []byte) []int16 {
	out := make([]int16, len(in)/2)
	for i := range out {
		out[i] = int16(uint16(in[2*i]) | uint16(in[2*i+1])<<8)
	}
	return out
}

// seekBuffer is an in-memory io.WriteSeeker. The WAV encoder seeks back to
// patch chunk sizes once all samples are written.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		if end > cap(b.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	copy(b.buf[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("pcm: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("pcm: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

func (b *seekBuffer) Bytes() []byte {
	return b.buf
}
