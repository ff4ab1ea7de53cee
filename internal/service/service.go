// Package service owns the selected assets and runs the transcoders on them.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"media-compress/internal/audio/decoder"
	"media-compress/internal/audio/resample"
	"media-compress/internal/media"
	"media-compress/internal/metrics"
)

var (
	ErrBusy           = errors.New("a transcode of this kind is already running")
	ErrNoTranscoder   = errors.New("transcoder cannot be nil")
	ErrNothingPending = media.ErrNothingPending
	ErrSuperseded     = media.ErrSuperseded
)

type ImageTranscoder interface {
	Transcode(ctx context.Context, in media.RawAsset, spec media.ResizeSpec) (media.ProcessedAsset, error)
}

type AudioTranscoder interface {
	Transcode(ctx context.Context, pcm media.PcmBuffer) (media.ProcessedAsset, error)
}

// AudioDecodeFunc turns an audio asset into PCM.
type AudioDecodeFunc func(ctx context.Context, asset media.RawAsset) (media.PcmBuffer, error)

type Options struct {
	Image ImageTranscoder
	Audio AudioTranscoder
	// DecodeAudio defaults to decoder.Decode.
	DecodeAudio AudioDecodeFunc
	// TargetSampleRate resamples decoded audio before encoding. 0 keeps the
	// source rate.
	TargetSampleRate int
	// Metrics defaults to a private registry.
	Metrics *metrics.Metrics
}

type Processor struct {
	selection  *media.Selection
	image      ImageTranscoder
	audio      AudioTranscoder
	decode     AudioDecodeFunc
	targetRate int
	metrics    *metrics.Metrics

	imageBusy atomic.Bool
	audioBusy atomic.Bool
}

func New(opts Options) (*Processor, error) {
	if opts.Image == nil || opts.Audio == nil {
		return nil, ErrNoTranscoder
	}
	if opts.TargetSampleRate < 0 {
		return nil, fmt.Errorf("invalid target sample rate %d", opts.TargetSampleRate)
	}
	if opts.DecodeAudio == nil {
		opts.DecodeAudio = decoder.Decode
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}
	return &Processor{
		selection:  media.NewSelection(),
		image:      opts.Image,
		audio:      opts.Audio,
		decode:     opts.DecodeAudio,
		targetRate: opts.TargetSampleRate,
		metrics:    opts.Metrics,
	}, nil
}

// Select classifies the upload and makes it the pending asset of its kind.
func (p *Processor) Select(name, mime string, data []byte) (media.Kind, error) {
	asset, err := media.NewRawAsset(name, mime, data)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedInput) {
			p.metrics.AssetsRejected.Inc()
		}
		return media.KindUnsupported, err
	}
	if err := p.selection.Select(asset); err != nil {
		return media.KindUnsupported, err
	}
	p.metrics.AssetsSelected.WithLabelValues(asset.Kind.String()).Inc()

	log.Info().
		Str("name", asset.Name).
		Str("kind", asset.Kind.String()).
		Str("mime", asset.MimeType).
		Int("bytes", len(asset.Data)).
		Msg("Asset selected")
	return asset.Kind, nil
}

// ProcessImage resizes the pending image.
func (p *Processor) ProcessImage(ctx context.Context, spec media.ResizeSpec) (media.ProcessedAsset, error) {
	if err := spec.Validate(); err != nil {
		return media.ProcessedAsset{}, err
	}
	return p.run(ctx, media.KindImage, &p.imageBusy, func(ctx context.Context, in media.RawAsset) (media.ProcessedAsset, error) {
		out, err := p.image.Transcode(ctx, in, spec)
		if err == nil && out.Image != nil {
			p.metrics.JPEGQuality.Observe(float64(out.Image.Quality))
			if !out.Image.CeilingMet {
				p.metrics.CeilingMissed.Inc()
			}
		}
		return out, err
	})
}

// ProcessAudio decodes the pending audio asset and encodes it as MP3.
func (p *Processor) ProcessAudio(ctx context.Context) (media.ProcessedAsset, error) {
	return p.run(ctx, media.KindAudio, &p.audioBusy, func(ctx context.Context, in media.RawAsset) (media.ProcessedAsset, error) {
		pcm, err := p.decode(ctx, in)
		if err != nil {
			return media.ProcessedAsset{}, err
		}
		pcm, err = resample.Resample(pcm, p.targetRate)
		if err != nil {
			return media.ProcessedAsset{}, err
		}
		out, err := p.audio.Transcode(ctx, pcm)
		if err == nil && out.Audio != nil {
			p.metrics.EncoderSubmissions.Observe(float64(out.Audio.Submissions))
		}
		return out, err
	})
}

func (p *Processor) run(
	ctx context.Context,
	kind media.Kind,
	busy *atomic.Bool,
	transcode func(context.Context, media.RawAsset) (media.ProcessedAsset, error),
) (media.ProcessedAsset, error) {
	started := time.Now()
	if !busy.CompareAndSwap(false, true) {
		p.metrics.ObserveTranscode(kind.String(), metrics.OutcomeBusy, started, 0, 0)
		return media.ProcessedAsset{}, ErrBusy
	}
	defer busy.Store(false)

	in, ticket, err := p.selection.Pending(kind)
	if err != nil {
		return media.ProcessedAsset{}, err
	}

	jobID := uuid.NewString()
	logger := log.With().Str("job_id", jobID).Str("kind", kind.String()).Logger()
	logger.Info().Str("name", in.Name).Int("bytes", len(in.Data)).Msg("Transcode started")

	gauge := p.metrics.InFlight.WithLabelValues(kind.String())
	gauge.Inc()
	out, err := transcode(ctx, in)
	gauge.Dec()

	if err != nil {
		p.metrics.ObserveTranscode(kind.String(), metrics.OutcomeError, started, len(in.Data), 0)
		logger.Error().Err(err).Msg("Transcode failed")
		return media.ProcessedAsset{}, err
	}

	if err := p.selection.Store(ticket, out); err != nil {
		p.metrics.ObserveTranscode(kind.String(), metrics.OutcomeSuperseded, started, len(in.Data), len(out.Data))
		logger.Warn().Msg("Transcode result discarded, asset was replaced")
		return media.ProcessedAsset{}, err
	}

	p.metrics.ObserveTranscode(kind.String(), metrics.OutcomeOK, started, len(in.Data), len(out.Data))
	logger.Info().
		Int("bytes", len(out.Data)).
		Dur("elapsed", time.Since(started)).
		Msg("Transcode finished")
	return out, nil
}

// Processed returns the output of the last successful run for kind.
func (p *Processor) Processed(kind media.Kind) (media.ProcessedAsset, error) {
	return p.selection.Processed(kind)
}

func (p *Processor) State() media.SelectionState {
	return p.selection.State()
}
