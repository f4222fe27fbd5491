// Package reddit enthält die Logik für die Reddit Board-Listings.
package reddit

// ListingResponse ist die Top-Level-Struktur eines Board-Listings.
type ListingResponse struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Post repräsentiert einen einzelnen Beitrag in einem Board.
type Post struct {
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
}
