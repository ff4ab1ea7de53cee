// Package mp3info walks the frames of an MPEG audio byte stream.
package mp3info

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/tcolgate/mp3"
)

var (
	ErrNoFrames  = errors.New("no mpeg audio frames found")
	ErrTruncated = errors.New("stream ends inside a frame")
)

type Info struct {
	Frames     int
	Samples    int
	Duration   time.Duration
	BitRate    int
	SampleRate int
	// Skipped counts bytes that were not part of any frame.
	Skipped int
	// Offsets holds the byte offset of every frame header.
	Offsets []int
}

// Scan reads every frame in data. The returned Info is valid up to the
// point of any error.
func Scan(data []byte) (Info, error) {
	var (
		info    Info
		frame   mp3.Frame
		skipped int
		pos     int
	)
	dec := mp3.NewDecoder(bytes.NewReader(data))

	for {
		err := dec.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				info.Skipped += len(data) - pos
				return info, ErrTruncated
			}
			return info, err
		}

		start := pos + skipped
		size := frame.Size()
		info.Offsets = append(info.Offsets, start)
		info.Skipped += skipped
		pos = start + size

		h := frame.Header()
		if info.Frames == 0 {
			info.BitRate = int(h.BitRate())
			info.SampleRate = int(h.SampleRate())
		}
		info.Frames++
		info.Samples += frame.Samples()
		info.Duration += frame.Duration()
	}

	if info.Frames == 0 {
		return info, ErrNoFrames
	}
	return info, nil
}
