// ABOUTME: HTTP fallback news source extracting readable text from the project site
// ABOUTME: Uses golang.org/x/net/html; serves hosts whose CLI predates news support

package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultSiteURL is the news page fetched when the CLI cannot serve news.
const DefaultSiteURL = "https://ruyisdk.org/en/news/"

const maxFetchBytes = 5 * 1024 * 1024

// FetchSite downloads the news page at url (DefaultSiteURL when empty)
// and returns it as a single readable-markdown item. This is a degraded
// path: no per-item structure, no read tracking.
func FetchSite(ctx context.Context, url string) (Item, error) {
	if url == "" {
		url = DefaultSiteURL
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return Item{}, fmt.Errorf("news: creating request: %w", err)
	}
	req.Header.Set("User-Agent", "ruyi-tui/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return Item{}, fmt.Errorf("news: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Item{}, fmt.Errorf("news: HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return Item{}, fmt.Errorf("news: reading response: %w", err)
	}

	return Item{
		ID:      url,
		Title:   "RuyiSDK news",
		Content: htmlToMarkdown(string(body)),
	}, nil
}

// htmlToMarkdown converts HTML to readable markdown-ish text.
func htmlToMarkdown(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	var b strings.Builder
	extractReadable(doc, &b)
	return strings.TrimSpace(b.String())
}

// extractReadable walks the HTML tree collecting text content, skipping
// chrome elements.
func extractReadable(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "footer", "header", "iframe", "noscript":
			return
		case "h1":
			b.WriteString("\n# ")
		case "h2":
			b.WriteString("\n## ")
		case "h3":
			b.WriteString("\n### ")
		case "h4", "h5", "h6":
			b.WriteString("\n#### ")
		case "p", "div", "section", "article":
			b.WriteString("\n\n")
		case "br":
			b.WriteString("\n")
		case "li":
			b.WriteString("\n- ")
		}
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractReadable(c, b)
	}
}
