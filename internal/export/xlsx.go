package export

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/diligence-cli/internal/classify"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/render"
)

// WriteXLSX renders the report and writes its tabular sections to a
// workbook: a Summary sheet with the key/value and card sections, plus one
// sheet per table. Tree sections have no tabular shape and are skipped.
func WriteXLSX(r *model.Report, dir string) (string, error) {
	doc := r.Flatten()
	view := render.Render(doc, classify.Classify(doc))

	f := xlsx.NewFile()
	summary, err := f.AddSheet("Summary")
	if err != nil {
		return "", eris.Wrap(err, "export: add summary sheet")
	}

	for _, sec := range view.Sections {
		switch sec.Kind {
		case render.SectionHeader:
			row := summary.AddRow()
			row.AddCell().SetString(sec.Title)
			if sec.Badge != "" {
				row.AddCell().SetString(sec.Badge)
			}
			summary.AddRow()
		case render.SectionSummary:
			titleRow := summary.AddRow()
			titleRow.AddCell().SetString(sec.Title)
			for _, row := range sec.Rows {
				addRow(summary, row)
			}
			summary.AddRow()
		case render.SectionCards:
			titleRow := summary.AddRow()
			titleRow.AddCell().SetString(sec.Title)
			for _, c := range sec.Cards {
				row := summary.AddRow()
				row.AddCell().SetString(c.Label)
				row.AddCell().SetString(c.Value)
			}
			summary.AddRow()
		case render.SectionParagraph:
			titleRow := summary.AddRow()
			titleRow.AddCell().SetString(sec.Title)
			summary.AddRow().AddCell().SetString(sec.Text)
			summary.AddRow()
		case render.SectionList:
			titleRow := summary.AddRow()
			titleRow.AddCell().SetString(sec.Title)
			for _, item := range sec.Items {
				summary.AddRow().AddCell().SetString(item)
			}
			summary.AddRow()
		case render.SectionTable:
			if err := addTableSheet(f, sec); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(dir, Filename(r, FormatXLSX))
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "export: write xlsx")
	}
	return path, nil
}

func addTableSheet(f *xlsx.File, sec render.Section) error {
	name := sheetName(sec.Title)
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", name)
	}
	header := sheet.AddRow()
	for _, col := range sec.Columns {
		header.AddCell().SetString(col)
	}
	for _, row := range sec.Rows {
		addRow(sheet, row)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, r render.Row) {
	row := sheet.AddRow()
	for _, cell := range r {
		text := cell.Text
		if text == "" && cell.URL != "" {
			text = cell.URL
		}
		row.AddCell().SetString(text)
	}
}

// sheetName trims a section title to the 31-character limit Excel imposes.
func sheetName(title string) string {
	if title == "" {
		return "Sheet"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
