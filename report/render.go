package report

import (
	"fmt"
	"html"
	"io"
	"os"
	"path"
	"strings"
)

//*******************************************
// html rendering
//*******************************************

// RenderHTML writes the logbook-style rendering of the report.
func (self *Report) RenderHTML(w io.Writer) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<title>" + html.EscapeString(self.Name) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(self.Name) + "</h1>\n")
	b.WriteString(fmt.Sprintf("<p class=\"meta\">run %s &mdash; %s</p>\n", self.ID, self.Created.Format("2006-01-02 15:04:05")))

	for _, entry := range self.entries {
		switch entry.Kind {
		case ENTRY_HEADER:
			b.WriteString("<h2>" + html.EscapeString(entry.Text) + "</h2>\n")
		case ENTRY_TEXT:
			margin := entry.Indent * 20
			if margin > 0 {
				b.WriteString(fmt.Sprintf("<p style=\"margin-left:%dpx\">", margin))
			} else {
				b.WriteString("<p>")
			}
			b.WriteString(html.EscapeString(entry.Text) + "</p>\n")
		case ENTRY_TABLE:
			if entry.Title != "" {
				b.WriteString("<h3>" + html.EscapeString(entry.Title) + "</h3>\n")
			}
			b.WriteString("<table border=\"1\" cellspacing=\"0\">\n")
			for i, row := range entry.Rows {
				tag := "td"
				if entry.Header && i == 0 {
					tag = "th"
				}
				b.WriteString("<tr>")
				for _, cell := range row {
					b.WriteString("<" + tag + ">" + html.EscapeString(cell) + "</" + tag + ">")
				}
				b.WriteString("</tr>\n")
			}
			b.WriteString("</table>\n")
		case ENTRY_ERROR:
			b.WriteString("<h2 style=\"color:red\">ERROR</h2>\n")
			b.WriteString("<p>" + html.EscapeString(entry.Text) + "</p>\n")
			b.WriteString("<pre>" + html.EscapeString(entry.Trace) + "</pre>\n")
		}
	}
	b.WriteString("</body>\n</html>\n")

	_, err := w.Write([]byte(b.String()))
	return err
}

//*******************************************
// plain-text rendering
//*******************************************

// RenderText writes the fixed-width rendering of the report.
func (self *Report) RenderText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(self.Name + "\n")
	b.WriteString(strings.Repeat("=", len(self.Name)) + "\n")
	b.WriteString(fmt.Sprintf("run %s  %s\n\n", self.ID, self.Created.Format("2006-01-02 15:04:05")))

	for _, entry := range self.entries {
		switch entry.Kind {
		case ENTRY_HEADER:
			b.WriteString("\n" + entry.Text + "\n")
			b.WriteString(strings.Repeat("-", len(entry.Text)) + "\n")
		case ENTRY_TEXT:
			b.WriteString(strings.Repeat("  ", entry.Indent+1) + entry.Text + "\n")
		case ENTRY_TABLE:
			if entry.Title != "" {
				b.WriteString("\n  " + entry.Title + "\n")
			}
			_WriteFixedTable(&b, entry)
		case ENTRY_ERROR:
			b.WriteString("\nERROR: " + entry.Text + "\n")
			b.WriteString(entry.Trace + "\n")
		}
	}

	_, err := w.Write([]byte(b.String()))
	return err
}

func _WriteFixedTable(b *strings.Builder, entry Entry) {
	widths := make([]int, 0, 8)
	for _, row := range entry.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i, row := range entry.Rows {
		b.WriteString("  ")
		for j, cell := range row {
			b.WriteString(fmt.Sprintf("%-*s  ", widths[j], cell))
		}
		b.WriteString("\n")
		if entry.Header && i == 0 {
			b.WriteString("  ")
			for _, w := range widths {
				b.WriteString(strings.Repeat("-", w) + "  ")
			}
			b.WriteString("\n")
		}
	}
}

//*******************************************
// file output
//*******************************************

// WriteFiles renders the report into the output directory: an html document
// plus a timestamped plain-text file.
func (self *Report) WriteFiles(dir string) error {
	html_file, err := os.Create(path.Join(dir, self.Name+".html"))
	if err != nil {
		return err
	}
	defer html_file.Close()
	if err := self.RenderHTML(html_file); err != nil {
		return err
	}

	stamp := self.Created.Format("20060102-150405")
	text_file, err := os.Create(path.Join(dir, self.Name+"_"+stamp+".txt"))
	if err != nil {
		return err
	}
	defer text_file.Close()
	return self.RenderText(text_file)
}
