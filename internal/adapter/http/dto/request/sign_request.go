package request

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")

const pngDataURLPrefix = "data:image/png;base64,"

// SignQuoteRequest carries the drawn signature as base64 PNG bytes. A data
// URL, as produced by an HTML canvas, is accepted too.
type SignQuoteRequest struct {
	Signature string `json:"signature" binding:"required"`
}

func (r SignQuoteRequest) DecodeSignature() ([]byte, error) {
	raw := strings.TrimSpace(r.Signature)
	if strings.HasPrefix(raw, "data:") {
		if !strings.HasPrefix(raw, pngDataURLPrefix) {
			return nil, ErrInvalidSignatureEncoding
		}
		raw = strings.TrimPrefix(raw, pngDataURLPrefix)
	}
	if raw == "" {
		return nil, ErrInvalidSignatureEncoding
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(raw); err != nil {
			return nil, ErrInvalidSignatureEncoding
		}
	}
	if len(data) == 0 {
		return nil, ErrInvalidSignatureEncoding
	}
	return data, nil
}
