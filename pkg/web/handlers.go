package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"media-compress/internal/media"
	"media-compress/tmplt"
)

var page = template.Must(template.New("page").Parse(tmplt.HtmlPage))

type assetResponse struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	MimeType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
}

type processResponse struct {
	Kind        string              `json:"kind"`
	MimeType    string              `json:"mime_type"`
	FileName    string              `json:"file_name"`
	Bytes       int                 `json:"bytes"`
	DownloadURL string              `json:"download_url"`
	Image       *media.ImageDetails `json:"image,omitempty"`
	Audio       *media.AudioDetails `json:"audio,omitempty"`
}

type stateResponse struct {
	PendingImage   *assetResponse   `json:"pending_image"`
	PendingAudio   *assetResponse   `json:"pending_audio"`
	ProcessedImage *processResponse `json:"processed_image"`
	ProcessedAudio *processResponse `json:"processed_audio"`
}

func toAssetResponse(a *media.RawAsset) *assetResponse {
	if a == nil {
		return nil
	}
	return &assetResponse{Name: a.Name, Kind: a.Kind.String(), MimeType: a.MimeType, Bytes: len(a.Data)}
}

func toProcessResponse(p *media.ProcessedAsset) *processResponse {
	if p == nil {
		return nil
	}
	return &processResponse{
		Kind:        p.Kind.String(),
		MimeType:    p.MimeType,
		FileName:    p.FileName,
		Bytes:       len(p.Data),
		DownloadURL: fmt.Sprintf("/api/%s/download", p.Kind),
		Image:       p.Image,
		Audio:       p.Audio,
	}
}

func (s *Server) index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := page.Execute(c.Writer, tmplt.PageData{
		MaxWidth:       s.defaultSpec.MaxWidth,
		MaxHeight:      s.defaultSpec.MaxHeight,
		MaxOutputBytes: s.defaultSpec.MaxOutputBytes,
		ImageFileName:  media.ImageExportName,
		AudioFileName:  media.AudioExportName,
	})
	if err != nil {
		_ = c.Error(err)
	}
}

// selectAsset accepts a multipart upload in the "file" field.
func (s *Server) selectAsset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.uploadMax)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, err)
			return
		}
		respondError(c, fmt.Errorf("%w: %v", media.ErrNoFile, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return
	}

	kind, err := s.proc.Select(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	state := s.proc.State()
	pending := state.PendingImage
	if kind == media.KindAudio {
		pending = state.PendingAudio
	}
	c.JSON(http.StatusCreated, toAssetResponse(pending))
}

func (s *Server) processImage(c *gin.Context) {
	spec := s.defaultSpec
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&spec); err != nil {
			respondError(c, fmt.Errorf("%w: %v", media.ErrInvalidSpec, err))
			return
		}
	}
	out, err := s.proc.ProcessImage(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProcessResponse(&out))
}

func (s *Server) processAudio(c *gin.Context) {
	out, err := s.proc.ProcessAudio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProcessResponse(&out))
}

func (s *Server) download(kind media.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := s.proc.Processed(kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Description", "File Transfer")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", out.FileName))
		c.Data(http.StatusOK, out.MimeType, out.Data)
	}
}

func (s *Server) state(c *gin.Context) {
	st := s.proc.State()
	c.JSON(http.StatusOK, stateResponse{
		PendingImage:   toAssetResponse(st.PendingImage),
		PendingAudio:   toAssetResponse(st.PendingAudio),
		ProcessedImage: toProcessResponse(st.ProcessedImage),
		ProcessedAudio: toProcessResponse(st.ProcessedAudio),
	})
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
