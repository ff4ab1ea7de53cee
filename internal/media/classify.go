package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const mimeOctetStream = "application/octet-stream"

// DetectMime returns the declared type unless it is empty or generic, in
// which case the content is sniffed.
func DetectMime(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(strings.ToLower(declared), mimeOctetStream) {
		return declared
	}
	if len(data) == 0 {
		return declared
	}
	return mimetype.Detect(data).String()
}

// Classify maps a MIME type to the transcoder that handles it.
func Classify(mimeType string) Kind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image"):
		return KindImage
	case strings.HasPrefix(mt, "audio"):
		return KindAudio
	default:
		return KindUnsupported
	}
}

// NewRawAsset classifies an incoming file and wraps it as a RawAsset.
func NewRawAsset(name, declaredMime string, data []byte) (RawAsset, error) {
	if len(data) == 0 && name == "" {
		return RawAsset{}, ErrNoFile
	}
	mt := DetectMime(declaredMime, data)
	kind := Classify(mt)
	if kind == KindUnsupported {
		return RawAsset{}, &Error{
			Op:    OpClassify,
			Kind:  KindUnsupported,
			Class: ErrUnsupportedInput,
			Err:   fmt.Errorf("%q has type %q", name, mt),
		}
	}
	return RawAsset{
		Name:     name,
		Kind:     kind,
		MimeType: mt,
		Data:     data,
	}, nil
}
