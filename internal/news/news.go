// ABOUTME: News feed item model shared by the CLI-backed and HTTP-backed sources
// ABOUTME: Bodies are markdown, rendered by the UI layer

package news

// Item is one news entry. Content is markdown; the UI renders it with
// glamour. No caching or offline fallback happens at this layer.
type Item struct {
	ID      string
	Ord     int
	Read    bool
	Title   string
	Content string
}
