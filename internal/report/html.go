package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
)

const styleCSS = `
body{font-family:Georgia,'Times New Roman',serif;color:#1c1917;margin:0;background:#f9f7f3;}
.report-wrap{max-width:860px;margin:0 auto;padding:1.2rem;}
.report-header{border-bottom:3px solid #92400e;padding-bottom:0.8rem;margin-bottom:1.2rem;}
.report-meta{color:#44403c;font-size:0.9rem;}
.report-meta strong{color:#1c1917;}
.report-badge{display:inline-block;background:#fef3c7;color:#78350f;border:1px solid #fcd34d;border-radius:4px;padding:0.15rem 0.5rem;font-size:0.8rem;margin-right:0.4rem;}
.report-html h1{font-size:1.5rem;}
.report-html h2{font-size:1.2rem;border-bottom:1px solid #d6d3d1;padding-bottom:0.25rem;}
.report-html h3{font-size:1.05rem;}
.report-html pre{background:#f1f5f9;border:1px solid #cbd5e1;padding:0.6rem;overflow-x:auto;font-size:0.75rem;}
.report-html table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:0.85rem;}
.report-html th,.report-html td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
`

// RenderHTML converts the Markdown report into a standalone HTML document
// with a header block built from the lead and the analysis badges.
func RenderHTML(lead leadstore.Lead, analysis aiscoring.Analysis) (string, error) {
	markdown := BuildMarkdown(lead, analysis)

	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	var meta strings.Builder
	meta.WriteString("<div><strong>Proponente:</strong> " + html.EscapeString(lead.Name) + "</div>")
	meta.WriteString("<div><strong>E-mail:</strong> " + html.EscapeString(lead.Email) + "</div>")
	if loc := joinLocation(lead.City, lead.StateCode); loc != "" {
		meta.WriteString("<div><strong>Localização:</strong> " + html.EscapeString(loc) + "</div>")
	}

	var badges strings.Builder
	badges.WriteString(fmt.Sprintf("<span class='report-badge'>Score %d/100</span>", analysis.OverallScore))
	for _, p := range analysis.Programs {
		if p.Eligible {
			badges.WriteString("<span class='report-badge'>" + html.EscapeString(p.ProgramName) + "</span>")
		}
	}

	return "<!doctype html><html lang='pt-BR'><head><meta charset='utf-8'>" +
		"<title>Relatório de Elegibilidade</title>" +
		"<style>" + styleCSS + "</style></head><body>" +
		"<div class='report-wrap'><div class='report-header'>" +
		"<div class='report-meta'>" + meta.String() + "</div>" +
		"<div class='report-badges'>" + badges.String() + "</div>" +
		"</div><div class='report-html'>" + content.String() + "</div></div>" +
		"</body></html>", nil
}
