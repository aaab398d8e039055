package documents

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/JaimeStill/civicdoc/pkg/web"
)

//go:embed templates
var templateFS embed.FS

var views = []web.ViewDef{
	{Name: string(KindRTI), Template: "rti.html", Title: "Application for Information under the RTI Act"},
	{Name: string(KindSchemeApplication), Template: "scheme_application.html", Title: "Scheme Application"},
	{Name: string(KindOfficialNotice), Template: "official_notice.html", Title: "Official Notice"},
	{Name: string(KindWorkOrder), Template: "work_order.html", Title: "Work Order"},
}

var funcs = template.FuncMap{
	"date":       formatDate,
	"cost":       formatCost,
	"paragraphs": paragraphs,
}

func newTemplates() (*web.TemplateSet, error) {
	return web.NewTemplateSet(templateFS, "templates/layout.html", "templates/views", "document", funcs, views)
}

func render(ts *web.TemplateSet, kind Kind, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ts.Render(&buf, string(kind), data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, kind, err)
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	return t.Format("02 January 2006")
}

func formatCost(cost *float64) string {
	if cost == nil {
		return "Not estimated"
	}
	return fmt.Sprintf("Rs. %.2f", *cost)
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for p := range strings.SplitSeq(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
