package export

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// spreadsheetTemplate is the Excel-compatible HTML table layout, opened
// directly by spreadsheet applications.
var spreadsheetTemplate = template.Must(template.New("spreadsheet").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="utf-8">
<meta name="ProgId" content="Excel.Sheet">
<meta name="Generator" content="TradeNest Export">
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; font-weight: bold; }
.header { text-align: center; margin-bottom: 20px; font-size: 18px; font-weight: bold; }
.subtitle { text-align: center; margin-bottom: 10px; font-size: 14px; color: #666; }
</style>
</head>
<body>
{{if .Title}}<div class="header">{{.Title}}</div>{{end}}
{{if .Subtitle}}<div class="subtitle">{{.Subtitle}}</div>{{end}}
<table>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Cells}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// printTemplate is the print-ready report document, suitable for saving
// as PDF from a browser.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.DocumentTitle}}</title>
<meta charset="utf-8">
<style>
@page { size: A4 landscape; margin: 0.5in; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; font-size: 12px; line-height: 1.4; }
.header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #333; padding-bottom: 15px; }
.header h1 { margin: 0; color: #333; font-size: 24px; font-weight: bold; }
.header .subtitle { margin: 5px 0 0 0; color: #666; font-size: 14px; }
.header .generated { margin: 10px 0 0 0; color: #999; font-size: 12px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th { background: #5a67d8; color: white; font-weight: bold; padding: 12px 8px; text-align: left; border: 1px solid #5a67d8; font-size: 11px; }
td { padding: 10px 8px; border: 1px solid #e2e8f0; font-size: 10px; }
tr:nth-child(even) { background-color: #f8fafc; }
.footer { margin-top: 30px; text-align: center; font-size: 10px; color: #999; border-top: 1px solid #e2e8f0; padding-top: 15px; }
.stats { display: flex; justify-content: space-around; margin: 20px 0; padding: 15px; background: #f7fafc; border: 1px solid #e2e8f0; }
.stat-item { text-align: center; }
.stat-value { font-size: 18px; font-weight: bold; color: #2d3748; }
.stat-label { font-size: 12px; color: #718096; margin-top: 4px; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="header">
<h1>{{.DocumentTitle}}</h1>
{{if .Subtitle}}<div class="subtitle">{{.Subtitle}}</div>{{end}}
<div class="generated">Generated on: {{.Generated}}</div>
</div>
<div class="stats">
<div class="stat-item"><div class="stat-value">{{.RecordCount}}</div><div class="stat-label">Total Records</div></div>
<div class="stat-item"><div class="stat-value">{{.FieldCount}}</div><div class="stat-label">Data Fields</div></div>
<div class="stat-item"><div class="stat-value">{{.ExportDate}}</div><div class="stat-label">Export Date</div></div>
</div>
<table>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Cells}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<div class="footer">
<p><strong>TradeNest</strong> - AI-Powered Global Trade Platform</p>
<p>This report contains {{.RecordCount}} records exported from your TradeNest dashboard</p>
</div>
</body>
</html>
`))

type tableView struct {
	Title    string
	Subtitle string
	Headers  []string
	Cells    [][]string
}

type printView struct {
	tableView
	DocumentTitle string
	Generated     string
	ExportDate    string
	RecordCount   int
	FieldCount    int
}

// WriteSpreadsheetHTML renders the data as an Excel-compatible HTML table.
func WriteSpreadsheetHTML(w io.Writer, data ExportData) error {
	if len(data.Headers) == 0 {
		return ErrNoHeaders
	}

	view := tableView{
		Title:    data.Title,
		Subtitle: data.Subtitle,
		Headers:  data.Headers,
		Cells:    orderedCells(data),
	}
	if err := spreadsheetTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render spreadsheet html: %w", err)
	}
	return nil
}

// WritePrintHTML renders the data as a print-ready HTML document.
func WritePrintHTML(w io.Writer, data ExportData, generated time.Time) error {
	if len(data.Headers) == 0 {
		return ErrNoHeaders
	}

	title := data.Title
	if title == "" {
		title = data.Filename
	}

	view := printView{
		tableView: tableView{
			Subtitle: data.Subtitle,
			Headers:  data.Headers,
			Cells:    orderedCells(data),
		},
		DocumentTitle: title,
		Generated:     generated.Format("2006-01-02 15:04:05 MST"),
		ExportDate:    generated.Format("2006-01-02"),
		RecordCount:   len(data.Rows),
		FieldCount:    len(data.Headers),
	}
	if err := printTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render print html: %w", err)
	}
	return nil
}

// orderedCells projects rows into header order.
func orderedCells(data ExportData) [][]string {
	cells := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		line := make([]string, len(data.Headers))
		for j, header := range data.Headers {
			line[j] = row.cell(header)
		}
		cells[i] = line
	}
	return cells
}
