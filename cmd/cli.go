package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"media-compress/internal/media"
	"media-compress/internal/service"
)

// runOnce transcodes the file at inPath and writes the result to outPath, or
// to the export name in the working directory when outPath is empty.
func runOnce(ctx context.Context, proc *service.Processor, inPath, outPath string, spec media.ResizeSpec) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// an empty type makes the classifier sniff the content
	declared := mime.TypeByExtension(filepath.Ext(inPath))
	kind, err := proc.Select(filepath.Base(inPath), declared, data)
	if err != nil {
		return err
	}

	var out media.ProcessedAsset
	switch kind {
	case media.KindImage:
		out, err = proc.ProcessImage(ctx, spec)
	case media.KindAudio:
		out, err = proc.ProcessAudio(ctx)
	default:
		return media.ErrUnsupportedInput
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = out.FileName
	}
	if err := os.WriteFile(outPath, out.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	ev := log.Info().
		Str("in", inPath).
		Str("out", outPath).
		Int("bytes_in", len(data)).
		Int("bytes_out", len(out.Data))
	if out.Image != nil {
		ev = ev.Int("width", out.Image.Width).Int("height", out.Image.Height).Int("quality", out.Image.Quality)
	}
	if out.Audio != nil {
		ev = ev.Int("frames", out.Audio.Frames).Dur("duration", out.Audio.Duration)
	}
	ev.Msg("Saved")
	return nil
}
