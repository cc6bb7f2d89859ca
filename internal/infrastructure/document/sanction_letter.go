// Package document renders sanction letters as Markdown.
package document

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/pkg/money"
)

// ContentType is the media type of rendered letters.
const ContentType = "text/markdown; charset=utf-8"

//go:embed templates/*.md.tmpl
var templates embed.FS

// Lender identifies the issuing institution on the letter.
type Lender struct {
	Name    string
	Address string
	Support string
}

// Renderer implements port.DocumentRenderer.
type Renderer struct {
	tmpl   *template.Template
	lender Lender
}

// NewRenderer parses the embedded letter template.
func NewRenderer(lender Lender) (*Renderer, error) {
	tmpl, err := template.New("sanction_letter.md.tmpl").Funcs(template.FuncMap{
		"inr":  formatINR,
		"pct":  formatPct,
		"date": func(t time.Time) string { return t.Format("02 Jan 2006") },
	}).ParseFS(templates, "templates/sanction_letter.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("document: parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl, lender: lender}, nil
}

type letterView struct {
	port.SanctionLetter
	Lender         Lender
	ScheduleTotals model.ScheduleTotals
}

// RenderSanctionLetter renders letter with its full repayment schedule.
func (r *Renderer) RenderSanctionLetter(_ context.Context, letter port.SanctionLetter) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, letterView{
		SanctionLetter: letter,
		Lender:         r.lender,
		ScheduleTotals: model.SumSchedule(letter.Schedule),
	}); err != nil {
		return nil, "", fmt.Errorf("document: render sanction letter %s: %w", letter.ApplicationID, err)
	}
	return buf.Bytes(), ContentType, nil
}

func formatINR(d decimal.Decimal) string {
	return money.New(d, money.INR).Grouped()
}

func formatPct(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
