package models

// BrandFeed is a show's feed, assembled from the upstream catalog for one
// request and discarded after rendering.
type BrandFeed struct {
	ID          uint64
	Title       string
	Description string
	Link        string
	Image       string
	Episodes    []Episode
}
