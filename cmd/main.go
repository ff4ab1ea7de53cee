package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	audioconfig "media-compress/internal/audio/config"
	"media-compress/internal/audio/encoder"
	"media-compress/internal/audio/pipeline"
	"media-compress/internal/image/resize"
	"media-compress/internal/metrics"
	"media-compress/internal/service"
	"media-compress/pkg/config"
	"media-compress/pkg/logger"
	"media-compress/pkg/web"
)

// newMP3Session opens a LAME session for one audio run.
func newMP3Session(cfg audioconfig.AudioConfig) (pipeline.Session, error) {
	enc, err := encoder.New(cfg)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func newProcessor(cfg *config.Config, m *metrics.Metrics) (*service.Processor, error) {
	opts := resize.DefaultOptions()
	opts.Filter = cfg.Image.Filter
	img, err := resize.NewTranscoder(opts)
	if err != nil {
		return nil, err
	}
	audio, err := pipeline.NewAudioTranscoder(newMP3Session)
	if err != nil {
		return nil, err
	}
	return service.New(service.Options{
		Image:            img,
		Audio:            audio,
		TargetSampleRate: cfg.Audio.TargetSampleRate,
		Metrics:          m,
	})
}

func main() {
	var (
		serve    = flag.Bool("serve", false, "run the web interface")
		in       = flag.String("in", "", "input image or audio file")
		out      = flag.String("out", "", "output file (default resized_image.jpg or compressed_audio.mp3)")
		width    = flag.Int("width", 0, "maximum output width (default from IMAGE_MAX_WIDTH)")
		height   = flag.Int("height", 0, "maximum output height (default from IMAGE_MAX_HEIGHT)")
		maxBytes = flag.Int64("max-bytes", -1, "JPEG byte ceiling, 0 disables it (default from IMAGE_MAX_OUTPUT_BYTES)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.InitLogger(cfg.Log.Level, cfg.Log.Pretty)
	log.Debug().Str("lame", encoder.LameVersion()).Msg("Encoder backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *serve:
		m := metrics.NewMetrics(prometheus.DefaultRegisterer)
		proc, err := newProcessor(cfg, m)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create processor")
		}
		if err := web.StartWebInterface(ctx, web.NewServer(proc, cfg, m, prometheus.DefaultGatherer), cfg); err != nil {
			log.Fatal().Err(err).Msg("Web interface stopped")
		}
	case *in != "":
		spec := cfg.ResizeSpec()
		if *width > 0 {
			spec.MaxWidth = *width
		}
		if *height > 0 {
			spec.MaxHeight = *height
		}
		if *maxBytes >= 0 {
			spec.MaxOutputBytes = *maxBytes
		}
		proc, err := newProcessor(cfg, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create processor")
		}
		if err := runOnce(ctx, proc, *in, *out, spec); err != nil {
			log.Fatal().Err(err).Str("in", *in).Msg("Transcode failed")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
