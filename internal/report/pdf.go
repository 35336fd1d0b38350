package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 18.0
	lineHeight = 7.0
	labelWidth = 35.0
	colWidth   = 87.0
)

// PDFRenderer draws a single A4 page.
type PDFRenderer struct {
	// Footer is printed centred at the bottom of the page.
	Footer string
}

// NewPDFRenderer returns a renderer with the default footer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Footer: "Generated by AI Packaging SaaS"}
}

func (p *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Render writes r as a PDF document to w.
func (p *PDFRenderer) Render(w io.Writer, r Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle("Packaging Recommendation Report", false)
	doc.SetCreator("packaging-backend", false)
	if !r.GeneratedAt.IsZero() {
		doc.SetCreationDate(r.GeneratedAt)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := doc.GetPageSize()
	contentW := pageW - 2*pageMargin
	if p.Footer != "" {
		doc.SetFooterFunc(func() {
			doc.SetY(pageH - 15)
			doc.SetFont("Helvetica", "I", 8)
			doc.SetTextColor(128, 128, 128)
			doc.CellFormat(0, 5, tr(p.Footer), "", 0, "C", false, 0, "")
		})
	}
	doc.AddPage()

	// Title and date.
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(contentW*0.7, 10, "Packaging Recommendation Report", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(contentW*0.3, 10, "Date: "+r.GeneratedAt.Format("2006-01-02"), "", 1, "R", false, 0, "")
	doc.Ln(6)

	// Product summary.
	section(doc, contentW, "Product Summary")
	category := r.Product.Category
	if category == "" {
		category = "N/A"
	}
	keyValue(doc, "Category", tr(category), 0, false)
	keyValue(doc, "Weight", strconv.FormatFloat(r.Product.WeightKG, 'f', -1, 64)+" kg", 1, true)
	keyValue(doc, "Dimensions", fmt.Sprintf("%d x %d x %d mm", r.Product.LengthMM, r.Product.WidthMM, r.Product.HeightMM), 0, false)
	keyValue(doc, "Fragility", tr(r.Product.Fragility.String()), 1, true)
	doc.Ln(3)

	if r.showAssessment() {
		drawAssessment(doc, tr, contentW, r)
	}

	// Decision summary.
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(55, lineHeight, "Fragility Decision Summary:", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, lineHeight, "Source: "+SourceLabel(r.Source), "", 1, "L", false, 0, "")
	doc.SetX(pageMargin + 55)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(90, 90, 90)
	doc.CellFormat(0, 5, tr(fmt.Sprintf("(AI Suggested: %s | Final: %s)", r.suggestedLabel(), r.Product.Fragility)), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(6)

	// Packaging specification.
	section(doc, contentW, "Recommended Packaging")
	keyValue(doc, "Box Type", r.Packaging.BoxMaterial, 0, true)
	keyValue(doc, "Material", r.Packaging.FluteType, 0, true)
	keyValue(doc, "Cushioning", r.Packaging.Cushioning, 0, true)
	doc.Ln(6)

	// Dimensions table.
	section(doc, contentW, "Box Dimensions (mm)")
	doc.SetFillColor(211, 211, 211)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(50, lineHeight, "Dimension", "", 0, "L", true, 0, "")
	doc.CellFormat(50, lineHeight, "Inner Box", "", 0, "L", true, 0, "")
	doc.CellFormat(contentW-100, lineHeight, "Outer Box", "", 1, "L", true, 0, "")
	rows := []struct {
		name         string
		inner, outer int
	}{
		{"Length", r.Packaging.Inner.Length, r.Packaging.Outer.Length},
		{"Width", r.Packaging.Inner.Width, r.Packaging.Outer.Width},
		{"Height", r.Packaging.Inner.Height, r.Packaging.Outer.Height},
	}
	doc.SetDrawColor(211, 211, 211)
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(50, lineHeight, row.name, "B", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(50, lineHeight, strconv.Itoa(row.inner), "B", 0, "L", false, 0, "")
		doc.CellFormat(contentW-100, lineHeight, strconv.Itoa(row.outer), "B", 1, "L", false, 0, "")
	}
	doc.Ln(8)

	// Cost and sustainability.
	section(doc, contentW, "Analysis")
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(35, 8, "Estimated Cost:", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(contentW/2-35, 8, fmt.Sprintf("%s %.2f", r.Packaging.Currency, r.Packaging.EstimatedCost), "", 0, "L", false, 0, "")
	doc.CellFormat(contentW/2, 8, fmt.Sprintf("Sustainability Score: %d/100", r.Packaging.SustainabilityScore), "", 1, "R", false, 0, "")

	if r.RecommendationID != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 5, "Recommendation ID: "+tr(r.RecommendationID), "", 1, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawAssessment(doc *fpdf.Fpdf, tr func(string) string, contentW float64, r Report) {
	a := r.Assessment
	x, y := doc.GetXY()
	doc.SetDrawColor(211, 211, 211)
	doc.SetFillColor(245, 245, 245)
	doc.Rect(x, y, contentW, 24, "FD")

	doc.SetXY(x+4, y+2)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(contentW/2, 6, "AI-Assisted Fragility Assessment", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "I", 9)
	pct := int(math.Round(a.Confidence * 100))
	doc.CellFormat(contentW/2-8, 6, fmt.Sprintf("Confidence: %d%%", pct), "", 1, "R", false, 0, "")

	doc.SetX(x + 4)
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(contentW-8, 6, tr("Analysis: "+a.Note()), "", 1, "L", false, 0, "")

	doc.SetX(x + 4)
	doc.SetFont("Helvetica", "I", 7)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(contentW-8, 5, "Disclaimer: This assessment is AI-assisted and can be overridden by the user.", "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)

	doc.SetXY(x, y+30)
}

func section(doc *fpdf.Fpdf, contentW float64, title string) {
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(0, 0, 139)
	doc.CellFormat(contentW, 8, title, "", 1, "L", false, 0, "")
	x, y := doc.GetXY()
	doc.SetDrawColor(128, 128, 128)
	doc.Line(x, y, x+contentW, y)
	doc.SetTextColor(0, 0, 0)
	doc.Ln(3)
}

// keyValue draws a label/value pair in the left (0) or right (1) column.
func keyValue(doc *fpdf.Fpdf, key, value string, column int, endLine bool) {
	doc.SetX(pageMargin + float64(column)*colWidth)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(labelWidth, lineHeight, key+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	ln := 0
	if endLine {
		ln = 1
	}
	doc.CellFormat(colWidth-labelWidth, lineHeight, value, "", ln, "L", false, 0, "")
}

var _ Renderer = (*PDFRenderer)(nil)
