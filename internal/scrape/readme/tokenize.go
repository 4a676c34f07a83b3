package readme

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlRowCells is the only row width the HTML tables use.
const htmlRowCells = 5

// minMarkdownCells is the narrowest markdown row still worth reading.
const minMarkdownCells = 3

// TokenizeHTMLRows finds every <tr>...</tr> block in raw and returns the
// rows that have exactly five <td> cells. Header rows built from <th> never
// qualify. Anything outside row blocks is ignored.
func TokenizeHTMLRows(raw string) [][]Cell {
	var out [][]Cell
	for _, block := range rowBlocks(raw) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + block + "</tbody></table>"))
		if err != nil {
			continue
		}
		doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			tds := tr.ChildrenFiltered("td")
			if tds.Length() != htmlRowCells {
				return
			}
			row := make([]Cell, 0, htmlRowCells)
			tds.Each(func(_ int, td *goquery.Selection) {
				inner, _ := td.Html()
				row = append(row, parseCell(inner))
			})
			out = append(out, row)
		})
	}
	return out
}

// rowBlocks returns the raw text of each <tr> element, tags included.
func rowBlocks(raw string) []string {
	lower := strings.ToLower(raw)
	var blocks []string
	for pos := 0; pos < len(lower); {
		i := strings.Index(lower[pos:], "<tr")
		if i < 0 {
			break
		}
		start := pos + i
		after := start + len("<tr")
		if after < len(lower) && !isTagBoundary(lower[after]) {
			// <track>, <tr-foo>
			pos = after
			continue
		}
		j := strings.Index(lower[after:], "</tr>")
		if j < 0 {
			break
		}
		end := after + j + len("</tr>")
		blocks = append(blocks, raw[start:end])
		pos = end
	}
	return blocks
}

func isTagBoundary(b byte) bool {
	switch b {
	case '>', ' ', '\t', '\n', '\r', '/':
		return true
	}
	return false
}

// TokenizeMarkdownRows treats each line that starts with "|" as a row, strips
// the outer pipes and splits on the rest. Rows with fewer than three fields
// are dropped.
func TokenizeMarkdownRows(raw string) [][]Cell {
	var out [][]Cell
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")

		fields := strings.Split(line, "|")
		if len(fields) < minMarkdownCells {
			continue
		}
		row := make([]Cell, 0, len(fields))
		for _, f := range fields {
			row = append(row, parseCell(strings.TrimSpace(f)))
		}
		out = append(out, row)
	}
	return out
}
