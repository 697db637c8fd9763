package model

// TopicCatalogEntry is one entry in the scraped catalog of CSES problem-set
// sections. Independent of any user's progress.
type TopicCatalogEntry struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Count       *int   `json:"count"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}
