package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mime string
		want Kind
	}{
		{"image/png", KindImage},
		{"image/jpeg", KindImage},
		{"IMAGE/WEBP", KindImage},
		{"audio/mpeg", KindAudio},
		{"audio/wav", KindAudio},
		{" audio/ogg; codecs=opus", KindAudio},
		{"video/mp4", KindUnsupported},
		{"application/pdf", KindUnsupported},
		{"", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mime))
		})
	}
}

func TestDetectMimeSniffsGenericTypes(t *testing.T) {
	data := pngBytes(t)

	assert.Equal(t, "image/png", DetectMime("", data))
	assert.Equal(t, "image/png", DetectMime("application/octet-stream", data))
	assert.Equal(t, "image/gif", DetectMime("image/gif", data), "declared type wins")
}

func TestNewRawAsset(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		a, err := NewRawAsset("cat.png", "", pngBytes(t))
		require.NoError(t, err)
		assert.Equal(t, KindImage, a.Kind)
		assert.Equal(t, "png", a.Subtype())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewRawAsset("notes.txt", "text/plain", []byte("hello"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedInput))

		var merr *Error
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, OpClassify, merr.Op)
	})

	t.Run("no file", func(t *testing.T) {
		_, err := NewRawAsset("", "", nil)
		assert.ErrorIs(t, err, ErrNoFile)
	})
}

func TestSubtype(t *testing.T) {
	assert.Equal(t, "mpeg", RawAsset{MimeType: "audio/mpeg; codecs=mp3"}.Subtype())
	assert.Equal(t, "x-wav", RawAsset{MimeType: "Audio/X-WAV"}.Subtype())
	assert.Equal(t, "", RawAsset{MimeType: "garbage"}.Subtype())
}

func TestResizeSpecValidate(t *testing.T) {
	assert.NoError(t, DefaultResizeSpec().Validate())
	assert.NoError(t, ResizeSpec{MaxWidth: 1, MaxHeight: 1}.Validate())
	assert.ErrorIs(t, ResizeSpec{MaxWidth: 0, MaxHeight: 10}.Validate(), ErrInvalidSpec)
	assert.ErrorIs(t, ResizeSpec{MaxWidth: 10, MaxHeight: -1}.Validate(), ErrInvalidSpec)
	assert.ErrorIs(t, ResizeSpec{MaxWidth: 10, MaxHeight: 10, MaxOutputBytes: -5}.Validate(), ErrInvalidSpec)
}

func TestErrorUnwrapsToClassAndCause(t *testing.T) {
	cause := fmt.Errorf("bad header")
	err := fmt.Errorf("transcode: %w", NewDecodeError(KindAudio, cause))

	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEncode)
	assert.Contains(t, err.Error(), "audio decode")
}

func TestPcmBufferDuration(t *testing.T) {
	assert.Equal(t, time.Second, PcmBuffer{Samples: make([]float32, 44100), SampleRate: 44100}.Duration())
	assert.Zero(t, PcmBuffer{Samples: make([]float32, 10)}.Duration())
}

func TestSelectionMutualExclusivity(t *testing.T) {
	s := NewSelection()
	img := RawAsset{Name: "a.png", Kind: KindImage, MimeType: "image/png", Data: []byte{1}}
	aud := RawAsset{Name: "b.wav", Kind: KindAudio, MimeType: "audio/wav", Data: []byte{2}}

	require.NoError(t, s.Select(img))
	_, ticket, err := s.Pending(KindImage)
	require.NoError(t, err)
	require.NoError(t, s.Store(ticket, ProcessedAsset{Kind: KindImage, Data: []byte{9}}))

	_, err = s.Processed(KindImage)
	require.NoError(t, err)

	require.NoError(t, s.Select(aud))

	state := s.State()
	assert.Nil(t, state.PendingImage)
	assert.Nil(t, state.ProcessedImage)
	require.NotNil(t, state.PendingAudio)
	assert.Equal(t, "b.wav", state.PendingAudio.Name)

	_, err = s.Processed(KindImage)
	assert.ErrorIs(t, err, ErrNothingProcessed)
	_, _, err = s.Pending(KindImage)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestSelectionReselectClearsOwnProcessed(t *testing.T) {
	s := NewSelection()
	aud := RawAsset{Name: "b.wav", Kind: KindAudio, Data: []byte{2}}

	require.NoError(t, s.Select(aud))
	_, ticket, err := s.Pending(KindAudio)
	require.NoError(t, err)
	require.NoError(t, s.Store(ticket, ProcessedAsset{Kind: KindAudio}))

	require.NoError(t, s.Select(aud))
	_, err = s.Processed(KindAudio)
	assert.ErrorIs(t, err, ErrNothingProcessed)
}

func TestSelectionStoreAfterReselect(t *testing.T) {
	s := NewSelection()
	require.NoError(t, s.Select(RawAsset{Name: "a.png", Kind: KindImage}))
	_, ticket, err := s.Pending(KindImage)
	require.NoError(t, err)

	require.NoError(t, s.Select(RawAsset{Name: "c.png", Kind: KindImage}))

	assert.ErrorIs(t, s.Store(ticket, ProcessedAsset{Kind: KindImage}), ErrSuperseded)
	_, err = s.Processed(KindImage)
	assert.ErrorIs(t, err, ErrNothingProcessed)
}

func TestSelectionRejectsUnsupported(t *testing.T) {
	s := NewSelection()
	assert.ErrorIs(t, s.Select(RawAsset{Kind: KindUnsupported}), ErrUnsupportedInput)
	_, _, err := s.Pending(KindUnsupported)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}
