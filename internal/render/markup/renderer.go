// Package markup renders report data into HTML documents from embedded templates.
package markup

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// RootAttr is the attribute that must carry the report kind on the document root element.
const RootAttr = "data-report-kind"

// requiredKeys lists, per kind, the JMESPath expressions that must resolve to a non-null value.
var requiredKeys = map[model.ReportKind][]string{
	model.ReportKindPersonal: {
		"kind", "jobId", "windowStart", "windowEnd",
		"username", "tasksCompleted", "tasksCreated", "tasksOpen", "projects",
	},
	model.ReportKindProject: {
		"kind", "jobId", "windowStart", "windowEnd",
		"projectId", "projectName", "tasksCompleted", "tasksCreated", "tasksOpen", "members",
	},
}

// Renderer implements core.MarkupRenderer.
type Renderer struct {
	templates map[model.ReportKind]*template.Template
}

var _ core.MarkupRenderer = (*Renderer)(nil)

// New parses the embedded templates and compiles the required-key expressions.
func New() (*Renderer, error) {
	for kind, exprs := range requiredKeys {
		for _, expr := range exprs {
			if _, err := jmespath.Compile(expr); err != nil {
				return nil, fmt.Errorf("compile required key %q for %s: %w", expr, kind, err)
			}
		}
	}

	templates := make(map[model.ReportKind]*template.Template, len(requiredKeys))
	for _, kind := range model.AllReportKinds() {
		tmpl, err := template.New(string(kind)+".html.tmpl").
			Option("missingkey=error").
			Funcs(funcMap()).
			ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+string(kind)+".html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		templates[kind] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// GenerateHTML checks required keys, executes the kind's template and verifies the
// document root. Every failure is a *model.TemplateRenderError.
func (r *Renderer) GenerateHTML(data map[string]any, kind model.ReportKind) (string, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return "", &model.TemplateRenderError{Kind: kind, Message: "no template for report kind"}
	}
	if data == nil {
		return "", &model.TemplateRenderError{Kind: kind, Message: "report data is empty"}
	}
	if err := checkRequiredKeys(data, kind); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &model.TemplateRenderError{Kind: kind, Message: "execute template", Cause: err}
	}
	out := buf.String()
	if err := checkRoot(out, kind); err != nil {
		return "", err
	}
	return out, nil
}

func checkRequiredKeys(data map[string]any, kind model.ReportKind) error {
	for _, expr := range requiredKeys[kind] {
		v, err := jmespath.Search(expr, data)
		if err != nil {
			return &model.TemplateRenderError{Kind: kind, Key: expr, Message: "evaluate required key", Cause: err}
		}
		if v == nil {
			return &model.TemplateRenderError{Kind: kind, Key: expr, Message: "missing required key"}
		}
	}
	return nil
}

func checkRoot(markup string, kind model.ReportKind) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return &model.TemplateRenderError{Kind: kind, Message: "parse rendered markup", Cause: err}
	}
	root := doc.Find("[" + RootAttr + "]").First()
	if root.Length() == 0 {
		return &model.TemplateRenderError{Kind: kind, Message: "rendered markup has no " + RootAttr + " root"}
	}
	if got, _ := root.Attr(RootAttr); got != string(kind) {
		return &model.TemplateRenderError{
			Kind:    kind,
			Message: fmt.Sprintf("rendered markup root is %q", got),
		}
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"date": formatDate,
		"dict": dict,
	}
}

// formatDate accepts a time.Time or an RFC 3339 string, the form times take after ToMap.
func formatDate(v any) (string, error) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return "", fmt.Errorf("date: %w", err)
		}
		t = parsed
	default:
		return "", fmt.Errorf("date: unsupported value %T", v)
	}
	return t.UTC().Format("Jan 2, 2006 15:04 MST"), nil
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}
