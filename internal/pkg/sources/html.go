package sources

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/rdatlas/internal/domain"
)

var ErrNoTable = errors.New("no matching html table")

// ParseHTMLTable reads the first table matched by selector ("table" when
// empty). The header is the thead row, or the first row when the table has no
// thead. Row header cells (th) count as values.
func ParseHTMLTable(data []byte, selector string) ([]domain.RawRecord, error) {
	if selector == "" {
		selector = "table"
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, selector)
	}

	rows := table.Find("tr")
	var header []string
	bodyStart := 0

	if thead := table.Find("thead tr").Last(); thead.Length() > 0 {
		header = cells(thead)
		bodyStart = table.Find("thead tr").Length()
	} else if rows.Length() > 0 {
		header = cells(rows.First())
		bodyStart = 1
	}
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	var out []domain.RawRecord
	rows.Slice(bodyStart, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		values := cells(tr)
		if blank(values) {
			return
		}

		rec := make(domain.RawRecord, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if _, dup := rec[h]; dup {
				continue
			}
			if i < len(values) {
				rec[h] = values[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	})

	return out, nil
}

func cells(tr *goquery.Selection) []string {
	var out []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(cell.Text()), " "))
	})
	return out
}
