package converter

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// newMarkdownConverter returns an HTML → Markdown converter with GitHub
// flavored tables and strikethrough. Embedded data-URI images are reduced to
// their alt text so Markdown output stays readable.
func newMarkdownConverter() *md.Converter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.AddRules(md.Rule{
		Filter: []string{"img"},
		Replacement: func(_ string, selec *goquery.Selection, _ *md.Options) *string {
			src, _ := selec.Attr("src")
			if !strings.HasPrefix(src, "data:") {
				// default rule
				return nil
			}
			alt := strings.TrimSpace(selec.AttrOr("alt", ""))
			if alt == "" {
				alt = "image"
			}
			return md.String("![" + alt + "]()")
		},
	})
	return conv
}

// ToMarkdown renders converted HTML as Markdown. Inline styles are dropped.
func ToMarkdown(html string) (string, error) {
	return newMarkdownConverter().ConvertString(html)
}
