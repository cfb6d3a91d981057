package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/coyotle/smotrim-rss-proxy/internal/dates"
	"github.com/coyotle/smotrim-rss-proxy/internal/models"
)

const (
	generatorName    = "smotrim-rss-proxy"
	generatorVersion = "1.2.0"

	ownerName  = "Sergey"
	ownerEmail = "me@coyotle.ru"

	fundingURL  = "https://pay.cloudtips.ru/p/a368e9f8"
	fundingText = "Поддержите работу проекта"
)

type rssDoc struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XMLNSAtom    string     `xml:"xmlns:atom,attr"`
	XMLNSContent string     `xml:"xmlns:content,attr"`
	XMLNSItunes  string     `xml:"xmlns:itunes,attr"`
	XMLNSDC      string     `xml:"xmlns:dc,attr"`
	XMLNSPodcast string     `xml:"xmlns:podcast,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string         `xml:"title"`
	Link          string         `xml:"link"`
	Description   string         `xml:"description"`
	LastBuildDate string         `xml:"lastBuildDate"`
	Explicit      string         `xml:"itunes:explicit"`
	Image         itunesImage    `xml:"itunes:image"`
	Owner         itunesOwner    `xml:"itunes:owner"`
	Language      string         `xml:"language"`
	Generator     string         `xml:"generator"`
	Docs          string         `xml:"docs"`
	Funding       podcastFunding `xml:"podcast:funding"`
	Items         []rssItem      `xml:"item"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesOwner struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email"`
}

type podcastFunding struct {
	URL  string `xml:"url,attr"`
	Text string `xml:",chardata"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Description string       `xml:"description"`
	GUID        rssGUID      `xml:"guid"`
	Enclosure   rssEnclosure `xml:"enclosure"`
	Duration    string       `xml:"itunes:duration"`
	PubDate     string       `xml:"pubDate"`
	Image       itunesImage  `xml:"itunes:image"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length uint64 `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// RenderRSS serializes a feed as podcast RSS 2.0. Marshalling through
// encoding/xml escapes titles and descriptions, so upstream markup cannot
// break the document. lastBuildDate is the render instant, not the cache
// timestamp.
func RenderRSS(f *models.BrandFeed) ([]byte, error) {
	doc := rssDoc{
		Version:      "2.0",
		XMLNSAtom:    "http://www.w3.org/2005/Atom",
		XMLNSContent: "http://purl.org/rss/1.0/modules/content/",
		XMLNSItunes:  "http://www.itunes.com/dtds/podcast-1.0.dtd",
		XMLNSDC:      "http://purl.org/dc/elements/1.1/",
		XMLNSPodcast: "https://podcastindex.org/namespace/1.0",
		Channel: rssChannel{
			Title:         f.Title,
			Link:          f.Link,
			Description:   f.Description,
			LastBuildDate: dates.FormatRFC822(time.Now()),
			Explicit:      "yes",
			Image:         itunesImage{Href: f.Image},
			Owner:         itunesOwner{Name: ownerName, Email: ownerEmail},
			Language:      "ru-RU",
			Generator:     fmt.Sprintf("%s v%s", generatorName, generatorVersion),
			Docs:          "http://www.rssboard.org/rss-specification",
			Funding:       podcastFunding{URL: fundingURL, Text: fundingText},
		},
	}

	for _, ep := range f.Episodes {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       ep.Title,
			Description: ep.Description,
			GUID:        rssGUID{IsPermaLink: "true", Value: ep.MediaURL},
			Enclosure:   rssEnclosure{URL: ep.MediaURL, Length: ep.MediaSizeBytes, Type: "audio/mpeg"},
			Duration:    ep.DurationText,
			PubDate:     dates.FormatRFC822(ep.PublishedAt),
			Image:       itunesImage{Href: ep.Image},
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
