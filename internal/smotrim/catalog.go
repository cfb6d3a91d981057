package smotrim

// Catalog is the typed shape of the audios API response. The upstream wraps
// the episode list in a single-element contents array; show-level title and
// artwork are only available on the list entries themselves.
type Catalog struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	List []Item `json:"list"`
}

// Item is one raw catalog entry. The episode title lives in "anons"; the
// "title" field holds the show title.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Anons       string `json:"anons"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Published   string `json:"published"`
	IsActive    bool   `json:"isActive"`
	Player      Player `json:"player"`
}

type Player struct {
	Preview Preview `json:"preview"`
}

type Preview struct {
	Source Source `json:"source"`
}

type Source struct {
	Main string `json:"main"`
}

// Items returns the catalog's episode list, nil when the catalog is empty.
func (c *Catalog) Items() []Item {
	if len(c.Contents) == 0 {
		return nil
	}
	return c.Contents[0].List
}
