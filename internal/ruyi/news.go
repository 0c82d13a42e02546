// ABOUTME: News feed access via the ruyi CLI's porcelain news output
// ABOUTME: Picks the first English language entry, falling back to the first available

package ruyi

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ruyisdk/ruyi-tui/internal/log"
	"github.com/ruyisdk/ruyi-tui/internal/news"
)

// newsItemLine mirrors the porcelain newsitem-v1 record.
type newsItemLine struct {
	Ty     string `json:"ty"`
	ID     string `json:"id"`
	Ord    int    `json:"ord"`
	IsRead bool   `json:"is_read"`
	Langs  []struct {
		Lang         string `json:"lang"`
		DisplayTitle string `json:"display_title"`
		Content      string `json:"content"`
	} `json:"langs"`
}

// NewsList returns all news items known to the CLI, via
// `ruyi --porcelain news list`.
func (r *Runner) NewsList(ctx context.Context) ([]news.Item, error) {
	res, err := r.Run(ctx, "--porcelain", "news", "list")
	if err != nil {
		return nil, err
	}
	return parseNews(res.Stdout), nil
}

// NewsRead marks the given items read (all of them when ids is empty).
func (r *Runner) NewsRead(ctx context.Context, ids ...string) error {
	args := append([]string{"news", "read", "--quiet"}, ids...)
	_, err := r.Run(ctx, args...)
	return err
}

// parseNews decodes porcelain NDJSON news records, skipping anything
// malformed or of an unexpected ty.
func parseNews(out string) []news.Item {
	var items []news.Item
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec newsItemLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Debug("ruyi: skipping unparseable news line: %v", err)
			continue
		}
		if rec.Ty != "newsitem-v1" || len(rec.Langs) == 0 {
			continue
		}

		lang := rec.Langs[0]
		for _, l := range rec.Langs {
			if strings.HasPrefix(l.Lang, "en") {
				lang = l
				break
			}
		}
		items = append(items, news.Item{
			ID:      rec.ID,
			Ord:     rec.Ord,
			Read:    rec.IsRead,
			Title:   lang.DisplayTitle,
			Content: lang.Content,
		})
	}
	return items
}
