// Package web serves the upload page and the JSON API around the processor.
package web

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"media-compress/internal/media"
	"media-compress/internal/metrics"
	"media-compress/internal/service"
	"media-compress/pkg/config"
	"media-compress/pkg/system"
)

type Server struct {
	proc        *service.Processor
	defaultSpec media.ResizeSpec
	uploadMax   int64
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
}

func NewServer(proc *service.Processor, cfg *config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{
		proc:        proc,
		defaultSpec: cfg.ResizeSpec(),
		uploadMax:   cfg.Web.UploadMaxBytes,
		metrics:     m,
		gatherer:    gatherer,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	// multipart parts beyond this spill to temp files
	r.MaxMultipartMemory = 32 << 20

	r.GET("/", s.index)
	r.GET("/healthz", healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/state", s.state)
	api.POST("/assets", s.selectAsset)
	api.POST("/image/process", s.processImage)
	api.POST("/audio/process", s.processAudio)
	api.GET("/image/download", s.download(media.KindImage))
	api.GET("/audio/download", s.download(media.KindAudio))

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			s.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}

		ev := log.Debug()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("HTTP request")
	}
}

// StartWebInterface serves the router on cfg.Web.Port until ctx is cancelled.
// With cfg.Web.TLS a self-signed certificate is generated at startup.
func StartWebInterface(ctx context.Context, s *Server, cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)

	server := &http.Server{
		Addr:              "0.0.0.0" + cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheme := "http"
	if cfg.Web.TLS {
		cert, err := config.GenerateSelfSignedCert()
		if err != nil {
			return fmt.Errorf("failed to create certificate: %w", err)
		}
		server.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
		scheme = "https"
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Web.TLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		errCh <- err
	}()

	if localIP := system.GetLocalIP(); localIP != "" {
		log.Info().Msgf("Network access: %s://%s:%d", scheme, localIP, cfg.Web.Port)
	}
	log.Info().Msgf("Local access: %s://localhost:%d", scheme, cfg.Web.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down web server")
		return server.Shutdown(shutdownCtx)
	}
}
