package documents

import (
	"bytes"
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Brand is the agency identity printed on every document.
type Brand struct {
	Name    string
	Tagline string
	Email   string
	Website string
	Terms   string
}

const defaultTerms = "This quote is valid for 30 days from the issue date. Signing it confirms " +
	"acceptance of the scope described above and authorizes the deposit invoice that follows. " +
	"Work starts once the deposit is received."

// Renderer lays out the fixed quote and invoice templates and persists the
// resulting PDF in the document store.
type Renderer struct {
	store   interfaces.IDocumentStore
	logo    LogoSource
	brand   Brand
	paper   PaperSize
	printer *message.Printer
}

var _ interfaces.IDocumentRenderer = (*Renderer)(nil)

func NewRenderer(store interfaces.IDocumentStore, brand Brand, logo LogoSource) *Renderer {
	if brand.Name == "" {
		brand.Name = "Studio"
	}
	if brand.Terms == "" {
		brand.Terms = defaultTerms
	}
	return &Renderer{
		store:   store,
		logo:    logo,
		brand:   brand,
		paper:   A4Size,
		printer: message.NewPrinter(language.English),
	}
}

func (r *Renderer) RenderQuote(ctx context.Context, path string, doc entities.QuoteDocument) (entities.Artifact, error) {
	logo, hasLogo := r.logo.Load(ctx)
	var logoPtr *Logo
	if hasLogo {
		logoPtr = &logo
	}

	data, pages, sigPage, err := r.layoutQuote(doc, logoPtr)
	if err != nil && logoPtr != nil {
		// A logo the PDF engine rejects must not cost us the document.
		log.Printf("[documents][renderer] layout with logo failed, retrying text brand number=%d err=%v", doc.Number, err)
		data, pages, sigPage, err = r.layoutQuote(doc, nil)
	}
	if err != nil {
		return entities.Artifact{}, fmt.Errorf("%w: quote %s: %v", interfaces.ErrDocumentRender, entities.QuoteTitle(doc.Number), err)
	}
	return r.persist(ctx, path, data, pages, sigPage)
}

func (r *Renderer) RenderInvoice(ctx context.Context, path string, doc entities.InvoiceDocument) (entities.Artifact, error) {
	logo, hasLogo := r.logo.Load(ctx)
	var logoPtr *Logo
	if hasLogo {
		logoPtr = &logo
	}

	data, pages, err := r.layoutInvoice(doc, logoPtr)
	if err != nil && logoPtr != nil {
		log.Printf("[documents][renderer] invoice layout with logo failed, retrying text brand number=%d err=%v", doc.Number, err)
		data, pages, err = r.layoutInvoice(doc, nil)
	}
	if err != nil {
		return entities.Artifact{}, fmt.Errorf("%w: invoice %s: %v", interfaces.ErrDocumentRender, entities.InvoiceTitle(doc.Number), err)
	}
	return r.persist(ctx, path, data, pages, 0)
}

func (r *Renderer) persist(ctx context.Context, path string, data []byte, pages, sigPage int) (entities.Artifact, error) {
	url, err := r.store.Put(ctx, path, data)
	if err != nil {
		log.Printf("[documents][renderer] persist failed path=%s err=%v", path, err)
		return entities.Artifact{}, fmt.Errorf("%w: %v", interfaces.ErrDocumentStorage, err)
	}
	return entities.Artifact{Bytes: data, URL: url, PageCount: pages, SignaturePage: sigPage}, nil
}

func (r *Renderer) newDocument(title string, doc *fpdf.Fpdf) {
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin+24)
	doc.SetTitle(title, true)
	doc.SetAuthor(r.brand.Name, true)
	doc.SetCreator(r.brand.Name, true)
	doc.AddPage()
}

func (r *Renderer) layoutQuote(q entities.QuoteDocument, logo *Logo) ([]byte, int, int, error) {
	pdf := fpdf.New("P", "pt", r.paper.Name, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := entities.QuoteTitle(q.Number)
	if !q.IssuedAt.IsZero() {
		pdf.SetCreationDate(q.IssuedAt)
		pdf.SetModificationDate(q.IssuedAt)
	}
	r.newDocument(title, pdf)

	r.header(pdf, tr, logo, "QUOTE", title, q.IssuedAt.Format("2006-01-02"))

	contentW := r.paper.Width - 2*pageMargin
	pdf.SetXY(pageMargin, 130)
	label(pdf, "PREPARED FOR")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 16, tr(q.ClientName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{q.Company, q.Email, q.Phone} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.CellFormat(contentW, 14, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.Ln(18)
	label(pdf, "PROJECT")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 16, tr(q.ProjectName), "", 1, "L", false, 0, "")
	pdf.Ln(12)

	amountW := 130.0
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-amountW, 22, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountW, 22, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-amountW, 22, tr(q.ProjectName), "LRB", 0, "L", false, 0, "")
	pdf.CellFormat(amountW, 22, r.money(q.Currency, q.Amount), "RB", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-amountW, 24, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(amountW, 24, r.money(q.Currency, q.Amount), "1", 1, "R", false, 0, "")

	if desc := strings.TrimSpace(q.Description); desc != "" {
		pdf.Ln(16)
		label(pdf, "SCOPE")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 14, tr(desc), "", "L", false)
	}

	pdf.Ln(16)
	label(pdf, "TERMS")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(contentW, 12, tr(r.brand.Terms), "", "L", false)

	// The signature box lives at a fixed spot. If the content already runs
	// into it, the box moves to a fresh page and that page becomes the anchor.
	boxTop := topLeftY(r.paper, SignatureBox.Y, SignatureBox.H)
	if pdf.GetY() > boxTop-30 {
		pdf.AddPage()
	}
	pdf.SetAutoPageBreak(false, 0)
	sigPage := pdf.PageNo()
	r.signatureBox(pdf, tr, q.ClientName)
	r.footer(pdf, tr)

	if err := pdf.Error(); err != nil {
		return nil, 0, 0, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), pdf.PageNo(), sigPage, nil
}

func (r *Renderer) layoutInvoice(inv entities.InvoiceDocument, logo *Logo) ([]byte, int, error) {
	pdf := fpdf.New("P", "pt", r.paper.Name, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := entities.InvoiceTitle(inv.Number)
	if !inv.IssuedAt.IsZero() {
		pdf.SetCreationDate(inv.IssuedAt)
		pdf.SetModificationDate(inv.IssuedAt)
	}
	r.newDocument(title, pdf)

	r.header(pdf, tr, logo, "INVOICE", title, inv.IssuedAt.Format("2006-01-02"))

	contentW := r.paper.Width - 2*pageMargin
	pdf.SetXY(pageMargin, 130)
	label(pdf, "BILL TO")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 16, tr(inv.ClientName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 14, "Reference: "+entities.QuoteTitle(inv.QuoteNumber), "", 1, "L", false, 0, "")
	pdf.Ln(18)

	amountW := 130.0
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-amountW, 22, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountW, 22, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	line := fmt.Sprintf("%s payment - %s", capitalize(string(inv.Type)), inv.ProjectName)
	pdf.CellFormat(contentW-amountW, 22, tr(line), "LRB", 0, "L", false, 0, "")
	pdf.CellFormat(amountW, 22, r.money(inv.Currency, inv.Amount), "RB", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-amountW, 24, "Amount due", "", 0, "R", false, 0, "")
	pdf.CellFormat(amountW, 24, r.money(inv.Currency, inv.Amount), "1", 1, "R", false, 0, "")

	pdf.SetAutoPageBreak(false, 0)
	r.footer(pdf, tr)

	if err := pdf.Error(); err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), pdf.PageNo(), nil
}

func (r *Renderer) header(pdf *fpdf.Fpdf, tr func(string) string, logo *Logo, kind, title, date string) {
	if logo != nil {
		opts := fpdf.ImageOptions{ImageType: logo.Type}
		pdf.RegisterImageOptionsReader("brand-logo", opts, bytes.NewReader(logo.Data))
		pdf.ImageOptions("brand-logo", pageMargin, 40, 0, 40, false, opts, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.SetTextColor(30, 30, 30)
		pdf.Text(pageMargin, 64, tr(r.brand.Name))
		if r.brand.Tagline != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(110, 110, 110)
			pdf.Text(pageMargin, 80, tr(r.brand.Tagline))
		}
	}

	rightW := 200.0
	rightX := r.paper.Width - pageMargin - rightW
	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(rightX, 40)
	pdf.CellFormat(rightW, 22, kind, "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(rightW, 14, title, "", 2, "R", false, 0, "")
	pdf.CellFormat(rightW, 14, "Date: "+date, "", 2, "R", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageMargin, 110, r.paper.Width-pageMargin, 110)
	pdf.SetDrawColor(0, 0, 0)
}

func (r *Renderer) signatureBox(pdf *fpdf.Fpdf, tr func(string) string, clientName string) {
	box := SignatureBox
	top := topLeftY(r.paper, box.Y, box.H)

	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(box.X, top-8, "CLIENT SIGNATURE")
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.6)
	pdf.Rect(box.X, top, box.W, box.H, "D")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageMargin, top+box.H/2, tr("Accepted by "+clientName))
}

func (r *Renderer) footer(pdf *fpdf.Fpdf, tr func(string) string) {
	parts := []string{r.brand.Name}
	for _, p := range []string{r.brand.Email, r.brand.Website} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	pdf.SetTextColor(130, 130, 130)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageMargin, r.paper.Height-36)
	pdf.CellFormat(r.paper.Width-2*pageMargin, 10, tr(strings.Join(parts, "  |  ")), "", 0, "C", false, 0, "")
}

func (r *Renderer) money(currency string, amount float64) string {
	return currency + " " + r.printer.Sprintf("%.2f", amount)
}

func capitalize(s string) string {
	if s == "" {
		return "Invoice"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func label(pdf *fpdf.Fpdf, text string) {
	pdf.SetTextColor(110, 110, 110)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(0, 12, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
}
