package readme

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internhunt-engine/internal/scrape/util"
)

// Link is a hyperlink found inside a table cell. Text falls back to the alt
// text of a wrapped image, which is how badge-style "Apply" buttons render.
type Link struct {
	Text string
	Href string
}

// Cell is one table field with its visible text and the links inside it.
type Cell struct {
	Text  string
	Links []Link
}

func (c Cell) FirstLink() (Link, bool) {
	if len(c.Links) == 0 {
		return Link{}, false
	}
	return c.Links[0], true
}

var (
	mdImageLink = regexp.MustCompile(`\[!\[([^\]]*)\]\([^)]*\)\]\(([^)\s]+)\)`)
	mdImage     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
)

// parseCell reads a cell written in markdown, HTML or a mix of both.
func parseCell(raw string) Cell {
	var c Cell

	raw = mdImageLink.ReplaceAllStringFunc(raw, func(m string) string {
		sub := mdImageLink.FindStringSubmatch(m)
		c.Links = append(c.Links, Link{Text: util.StripMarkup(sub[1]), Href: strings.TrimSpace(sub[2])})
		return ""
	})
	raw = mdImage.ReplaceAllString(raw, "")
	raw = mdLink.ReplaceAllStringFunc(raw, func(m string) string {
		sub := mdLink.FindStringSubmatch(m)
		c.Links = append(c.Links, Link{Text: util.StripMarkup(sub[1]), Href: strings.TrimSpace(sub[2])})
		return sub[1]
	})

	if !strings.Contains(raw, "<") {
		c.Text = util.StripMarkup(raw)
		return c
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		c.Text = util.StripMarkup(raw)
		return c
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		label := util.CleanText(a.Text())
		if label == "" {
			label = util.CleanText(a.Find("img").AttrOr("alt", ""))
		}
		c.Links = append(c.Links, Link{Text: util.StripMarkup(label), Href: href})
	})
	doc.Find("br").ReplaceWithHtml(" ")
	c.Text = util.StripMarkup(doc.Text())
	return c
}
