package models

import "time"

// Episode is a single catalog entry normalized for the feed.
type Episode struct {
	ID             int64
	BrandID        uint64
	Title          string
	Description    string
	DurationText   string
	PublishedAt    time.Time // always UTC
	Image          string
	MediaURL       string
	MediaSizeBytes uint64
}
