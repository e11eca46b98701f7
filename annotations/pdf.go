package annotations

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/contentstream/draw"
	"github.com/unidoc/unipdf/v3/creator"
	pdf "github.com/unidoc/unipdf/v3/model"

	"github.com/juruen/quickdraw/encoding/sketch"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
)

const (
	margin      = 36.0
	titleSize   = 16.0
	textSize    = 10.0
	maxRanked   = 5
	tensorWidth = 128.0
)

var reportPageSize = creator.PageSizeA4

// Page is one sketch of a report.
type Page struct {
	Title      string
	Sketch     *sketch.Sketch
	Prediction *model.Prediction
	// Tensor is the preprocessed classifier input, drawn next to the ranking.
	Tensor *image.Gray
}

type PdfGenerator struct {
	outputFilePath string
	options        PdfGeneratorOptions
}

type PdfGeneratorOptions struct {
	AddPageNumbers bool
	// LineWidth is the stroke width in sketch units; zero uses 1pt.
	LineWidth float64
}

func CreatePdfGenerator(outputFilePath string, options PdfGeneratorOptions) *PdfGenerator {
	return &PdfGenerator{outputFilePath: outputFilePath, options: options}
}

// Generate writes the report to the output file.
func (p *PdfGenerator) Generate(pages []Page) error {
	file, err := os.Create(p.outputFilePath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := p.Write(file, pages); err != nil {
		return err
	}
	return file.Close()
}

func (p *PdfGenerator) Write(w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return errors.New("nothing to render")
	}

	c := creator.New()
	c.SetPageSize(reportPageSize)

	if p.options.AddPageNumbers {
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			para := c.NewParagraph(fmt.Sprintf("%d / %d", args.PageNum, args.TotalPages))
			para.SetFontSize(8)
			para.SetPos(block.Width()-margin-20, block.Height()-20)
			_ = block.Draw(para)
		})
	}

	for i, page := range pages {
		if page.Sketch == nil {
			return errors.Errorf("page %d has no sketch", i+1)
		}
		if err := p.addPage(c, page); err != nil {
			return errors.Wrapf(err, "page %d", i+1)
		}
	}

	return c.Write(w)
}

func (p *PdfGenerator) addPage(c *creator.Creator, page Page) error {
	pdfPage := c.NewPage()

	title := c.NewParagraph(page.Title)
	title.SetFontSize(titleSize)
	title.SetPos(margin, margin)
	if err := c.Draw(title); err != nil {
		return err
	}

	// the drawing area is a square below the title
	side := c.Width() - 2*margin
	top := margin + 2*titleSize
	scale := 1.0
	if s := page.Sketch; s.Width > 0 && s.Height > 0 {
		scale = side / float64(max(s.Width, s.Height))
	}

	frame := draw.Rectangle{
		X: margin, Y: c.Height() - top - side, Width: side, Height: side,
		BorderEnabled: true, BorderWidth: 0.5,
		BorderColor: pdf.NewPdfColorDeviceRGB(0.6, 0.6, 0.6),
	}
	frameOps, _, err := frame.Draw("")
	if err != nil {
		return err
	}
	if err := pdfPage.AppendContentStream(string(frameOps)); err != nil {
		return err
	}

	lineWidth := 1.0
	if p.options.LineWidth > 0 {
		lineWidth = p.options.LineWidth * scale
	}

	cc := contentstream.NewContentCreator()
	for _, stroke := range page.Sketch.Strokes {
		if len(stroke) == 0 {
			continue
		}
		path := draw.NewPath()
		for _, pt := range stroke {
			// pdf y axis points up
			path = path.AppendPoint(draw.NewPoint(margin+pt.X*scale, c.Height()-top-pt.Y*scale))
		}
		if len(stroke) == 1 {
			path = path.AppendPoint(path.Points[0])
		}
		cc.Add_q()
		cc.Add_w(lineWidth)
		cc.Add_J("1")
		cc.Add_j("1")
		cc.Add_RG(0, 0, 0)
		draw.DrawPathWithCreator(path, cc)
		cc.Add_S()
		cc.Add_Q()
	}
	if err := pdfPage.AppendContentStream(string(cc.Operations().Bytes())); err != nil {
		return err
	}

	y := top + side + margin/2
	if page.Tensor != nil {
		img, err := c.NewImageFromGoImage(page.Tensor)
		if err != nil {
			return err
		}
		img.ScaleToWidth(tensorWidth)
		img.SetPos(c.Width()-margin-tensorWidth, y)
		if err := c.Draw(img); err != nil {
			return err
		}
	}

	for _, line := range rankingLines(page.Prediction) {
		para := c.NewParagraph(line)
		para.SetFontSize(textSize)
		para.SetPos(margin, y)
		if err := c.Draw(para); err != nil {
			return err
		}
		y += textSize * 1.5
	}

	log.Trace.Printf("annotations: page %q with %d strokes", page.Title, len(page.Sketch.Strokes))
	return nil
}

func rankingLines(pred *model.Prediction) []string {
	if pred == nil {
		return []string{"not recognized"}
	}
	lines := []string{fmt.Sprintf("prediction: %s (%.1f%%)", pred.Label, pred.Confidence*100)}
	for i, r := range pred.Ranked {
		if i == maxRanked {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %-16s %6.2f%%", i+1, r.Label, r.Probability*100))
	}
	return lines
}
