package documents

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	imageWidth   = 1000
	imageMargin  = 60.0
	titleSize    = 34
	labelSize    = 19
	bodySize     = 19
	footerSize   = 15
	lineSpacing  = 1.45
	sectionSpace = 18.0
)

var (
	imageBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	imageAccent     = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	imageText       = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	imageMuted      = color.RGBA{R: 100, G: 116, B: 139, A: 255}
)

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fontSet{}, err
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fontSet{}, err
	}
	return fontSet{regular: regular, bold: bold}, nil
})

type imageField struct {
	label string
	value []string
}

func workOrderFields(wo *WorkOrder) []imageField {
	fields := []imageField{}
	if wo.ComplaintID != nil {
		fields = append(fields, imageField{"Complaint", []string{fmt.Sprintf("#%d", *wo.ComplaintID)}})
	}
	fields = append(fields,
		imageField{"Assigned department", []string{orDash(wo.AssignedDepartment)}},
		imageField{"Status", []string{string(wo.Status)}},
		imageField{"Estimated cost", []string{formatCost(wo.EstimatedCost)}},
		imageField{"Caller", []string{orDash(wo.CallerName)}},
		imageField{"Caller contact", []string{orDash(wo.CallerContact)}},
		imageField{"Task", []string{orDash(wo.TaskDescription)}},
	)

	if len(wo.SuggestedActions) > 0 {
		actions := make([]string, len(wo.SuggestedActions))
		for i, a := range wo.SuggestedActions {
			actions[i] = fmt.Sprintf("%d. %s", i+1, a)
		}
		fields = append(fields, imageField{"Suggested actions", actions})
	}
	return fields
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderWorkOrderPNG lays the work order out in two passes: wrap and measure,
// then draw onto a canvas of the measured height.
func renderWorkOrderPNG(wo *WorkOrder) ([]byte, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("%w: load fonts: %v", ErrRenderFailed, err)
	}

	titleFace := truetype.NewFace(fonts.bold, &truetype.Options{Size: titleSize})
	labelFace := truetype.NewFace(fonts.bold, &truetype.Options{Size: labelSize})
	bodyFace := truetype.NewFace(fonts.regular, &truetype.Options{Size: bodySize})
	footerFace := truetype.NewFace(fonts.regular, &truetype.Options{Size: footerSize})

	textWidth := imageWidth - 2*imageMargin
	fields := workOrderFields(wo)

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(bodyFace)
	bodyLine := measure.FontHeight() * lineSpacing

	wrapped := make([][]string, len(fields))
	height := imageMargin + titleSize*lineSpacing + bodySize*lineSpacing + sectionSpace
	for i, f := range fields {
		for _, v := range f.value {
			wrapped[i] = append(wrapped[i], measure.WordWrap(v, textWidth)...)
		}
		height += labelSize*lineSpacing + float64(len(wrapped[i]))*bodyLine + sectionSpace
	}
	height += footerSize*lineSpacing + imageMargin

	dc := gg.NewContext(imageWidth, int(height))
	dc.SetColor(imageBackground)
	dc.Clear()

	y := imageMargin
	dc.SetFontFace(titleFace)
	dc.SetColor(imageAccent)
	y += titleSize
	dc.DrawStringAnchored("WORK ORDER", imageWidth/2, y, 0.5, 0)

	dc.SetFontFace(bodyFace)
	dc.SetColor(imageMuted)
	y += bodySize * lineSpacing
	dc.DrawStringAnchored(wo.Municipality, imageWidth/2, y, 0.5, 0)

	y += sectionSpace / 2
	dc.SetColor(imageAccent)
	dc.SetLineWidth(2)
	dc.DrawLine(imageMargin, y, imageWidth-imageMargin, y)
	dc.Stroke()
	y += sectionSpace

	for i, f := range fields {
		drawField(dc, labelFace, bodyFace, f.label, wrapped[i], &y, bodyLine)
	}

	dc.SetFontFace(footerFace)
	dc.SetColor(imageMuted)
	dc.DrawString("Issued "+formatDate(wo.GeneratedAt), imageMargin, height-imageMargin/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func drawField(dc *gg.Context, label, body font.Face, name string, lines []string, y *float64, lineHeight float64) {
	dc.SetFontFace(label)
	dc.SetColor(imageAccent)
	*y += labelSize * lineSpacing
	dc.DrawString(name, imageMargin, *y)

	dc.SetFontFace(body)
	dc.SetColor(imageText)
	for _, line := range lines {
		*y += lineHeight
		dc.DrawString(line, imageMargin, *y)
	}
	*y += sectionSpace
}
