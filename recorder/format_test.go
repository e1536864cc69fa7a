package recorder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafari(t *testing.T) {
	assert.True(t, IsSafari("Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15"))
	assert.False(t, IsSafari("Mozilla/5.0 AppleWebKit/537.36 Chrome/120.0 Safari/537.36"))
	assert.False(t, IsSafari("braindump-cli"))
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
		want     Format
	}{
		{
			name:     "first compressed format wins",
			platform: &fakePlatform{supported: map[string]bool{"audio/webm": true, "audio/ogg;codecs=opus": true}},
			want:     Format{Path: PathCompressed, MIMEType: "audio/webm"},
		},
		{
			name:     "later compressed format",
			platform: &fakePlatform{supported: map[string]bool{"audio/ogg;codecs=opus": true}},
			want:     Format{Path: PathCompressed, MIMEType: "audio/ogg;codecs=opus"},
		},
		{
			name:     "safari default recorder",
			platform: &fakePlatform{userAgent: "Version/17.0 Safari/605.1.15"},
			want:     Format{Path: PathEngineDefault},
		},
		{
			name:     "wav fallback",
			platform: &fakePlatform{userAgent: "braindump-cli"},
			want:     Format{Path: PathWAV, MIMEType: WAVMIMEType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectFormat(tt.platform))
		})
	}
}

func TestNewRecorder_NativeFailure(t *testing.T) {
	p := &fakePlatform{supported: map[string]bool{"audio/webm": true}, newErr: errors.New("NotSupportedError")}

	_, err := NewRecorder(p, 16000)
	var initErr *RecorderInitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "Failed to initialize recording. Please try using Chrome or Safari.", err.Error())
}

func TestNewRecorder_Native(t *testing.T) {
	p := &fakePlatform{userAgent: "Safari/605.1.15"}

	rec, err := NewRecorder(p, 16000)
	require.NoError(t, err)
	assert.Equal(t, "", p.requested)
	assert.Equal(t, "audio/mp4", rec.MIMEType())
}

func TestNewRecorder_WAVRegistersOnce(t *testing.T) {
	p := &fakePlatform{}
	for i := 0; i < 3; i++ {
		rec, err := NewRecorder(p, 16000)
		require.NoError(t, err)
		assert.Equal(t, WAVMIMEType, rec.MIMEType())
	}
	assert.Equal(t, int32(1), wavRegistrations.Load())
}

func TestWAVRecorder(t *testing.T) {
	r := &wavRecorder{sampleRate: 16000}
	require.NoError(t, r.Write([]int16{1, 2, 3}))
	require.NoError(t, r.Write([]int16{4, 5}))

	chunks, err := r.Stop()
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	buf, err := wav.NewDecoder(bytes.NewReader(chunks[0])).FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, buf.Data)

	assert.Error(t, r.Write([]int16{6}))
}

func TestWAVRecorder_Empty(t *testing.T) {
	r := &wavRecorder{sampleRate: 16000}
	chunks, err := r.Stop()
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
