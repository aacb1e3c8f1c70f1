package documents

import (
	"bytes"
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"image/png"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var disableConfigDir sync.Once

// Compositor stamps a client's signature image into the reserved box of an
// existing quote PDF. The input document is never modified.
type Compositor struct {
	box Rect
}

var _ interfaces.ISignatureCompositor = (*Compositor)(nil)

func NewCompositor() *Compositor {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Compositor{box: SignatureBox}
}

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Sign returns a new PDF with signature drawn inside the signature box of
// page (1-based) and a "Signed on" caption under it. A page <= 0 selects the
// last page. The page count of the result equals the input's.
func (c *Compositor) Sign(ctx context.Context, pdf, signature []byte, page int, signedAt time.Time) ([]byte, error) {
	img, err := png.DecodeConfig(bytes.NewReader(signature))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidSignatureImage, err)
	}
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("%w: zero sized image", interfaces.ErrInvalidSignatureImage)
	}

	conf := pdfConfig()
	count, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: read source document: %v", interfaces.ErrDocumentRender, err)
	}
	if page <= 0 {
		page = count
	}
	if page > count {
		return nil, fmt.Errorf("%w: signature page %d out of range, document has %d pages", interfaces.ErrDocumentRender, page, count)
	}
	pages := []string{strconv.Itoa(page)}

	scale, w, h := FitWithin(float64(img.Width), float64(img.Height), c.box)
	x, y := Centered(w, h, c.box)
	imageDesc := fmt.Sprintf("position:bl, offset:%.2f %.2f, scalefactor:%.4f abs, rotation:0, opacity:1", x, y, scale)
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(signature), imageDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: signature stamp: %v", interfaces.ErrDocumentRender, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stamped bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &stamped, pages, wm, conf); err != nil {
		return nil, fmt.Errorf("%w: apply signature: %v", interfaces.ErrDocumentRender, err)
	}

	caption := "Signed on " + signedAt.UTC().Format("2006-01-02")
	captionDesc := fmt.Sprintf("fontname:Helvetica, points:9, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, fillcolor:#333333",
		c.box.X, c.box.Y-signedCaptionOffset)
	tm, err := api.TextWatermark(caption, captionDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: caption stamp: %v", interfaces.ErrDocumentRender, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(stamped.Bytes()), &out, pages, tm, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: apply caption: %v", interfaces.ErrDocumentRender, err)
	}
	log.Printf("[documents][compositor] signature applied page=%d pages=%d size=%d", page, count, out.Len())
	return out.Bytes(), nil
}
