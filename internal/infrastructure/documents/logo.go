package documents

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxLogoBytes = 2 << 20

// Logo is a decoded-enough branding image ready to embed.
type Logo struct {
	Data   []byte
	Type   string // "PNG" or "JPG"
	Width  int
	Height int
}

// LogoSource resolves the branding image. It tries the local file first, the
// remote URL second, and reports ok=false when neither works so the caller
// can fall back to a text brand.
type LogoSource struct {
	Path       string
	URL        string
	HTTPClient *http.Client
}

func (s LogoSource) Load(ctx context.Context) (Logo, bool) {
	if s.Path != "" {
		logo, err := s.readLocal()
		if err == nil {
			return logo, true
		}
		log.Printf("[documents][logo] local logo unusable path=%s err=%v", s.Path, err)
	}
	if s.URL != "" {
		data, err := s.fetch(ctx)
		if err == nil {
			var logo Logo
			if logo, err = decodeLogo(data); err == nil {
				return logo, true
			}
		}
		log.Printf("[documents][logo] remote logo unusable url=%s err=%v", s.URL, err)
	}
	return Logo{}, false
}

func (s LogoSource) readLocal() (Logo, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Logo{}, err
	}
	return decodeLogo(data)
}

func (s LogoSource) fetch(ctx context.Context) ([]byte, error) {
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

func decodeLogo(data []byte) (Logo, error) {
	if len(data) == 0 {
		return Logo{}, fmt.Errorf("empty image")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Logo{}, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Logo{}, fmt.Errorf("zero sized image")
	}
	var typ string
	switch strings.ToLower(format) {
	case "png":
		typ = "PNG"
	case "jpeg":
		typ = "JPG"
	default:
		return Logo{}, fmt.Errorf("unsupported logo format %q", format)
	}
	return Logo{Data: data, Type: typ, Width: cfg.Width, Height: cfg.Height}, nil
}
