package models

// SizeRecord is the persisted resolution of an episode's media byte size.
// A record is written once, the first time the size is probed, and is never
// updated afterwards.
type SizeRecord struct {
	ID          int64  `db:"id"`
	BrandID     uint64 `db:"brand_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Size        uint64 `db:"size"`
	Duration    string `db:"duration"`
	Published   string `db:"published"`
	Image       string `db:"image"`
}
