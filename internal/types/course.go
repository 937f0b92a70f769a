package types

// Course is a read-only snapshot of an enrolled course as the upstream platform reports it.
type Course struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	URL             string  `json:"url,omitempty"`
	PublishedTitle  string  `json:"published_title,omitempty"`
	CompletionRatio float64 `json:"completion_ratio"`
	Image240x135    string  `json:"image_240x135,omitempty"`
	Image480x270    string  `json:"image_480x270,omitempty"`
	NumCollections  int     `json:"num_collections,omitempty"`
	TrackingID      string  `json:"tracking_id,omitempty"`
}

// ThumbnailURLs lists the non-empty thumbnails, smallest first.
func (c Course) ThumbnailURLs() []string {
	out := make([]string, 0, 2)
	for _, u := range []string{c.Image240x135, c.Image480x270} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Page is the upstream list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
