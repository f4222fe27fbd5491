// Package hackernews enthält die Logik für die Hacker News Firebase API.
package hackernews

// Item repräsentiert eine einzelne Story.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}
