// Package smotrim talks to the smotrim.ru catalog API, its brand pages and
// the audio CDN.
package smotrim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// userAgent mimics a desktop browser; the upstream rejects obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

const (
	defaultSiteURL = "https://smotrim.ru"
	defaultCDNURL  = "https://vgtrk-podcast.cdnvideo.ru"
)

var (
	// ErrUpstream marks transport or HTTP-status failures of the catalog
	// fetch. Callers surface it as a gateway error.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrDecode marks catalog responses that do not match the expected shape.
	ErrDecode = errors.New("malformed upstream response")
)

// Client is the HTTP client for all upstream calls.
type Client struct {
	http    *http.Client
	siteURL string
	cdnURL  string
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{
		http:    httpClient,
		siteURL: defaultSiteURL,
		cdnURL:  defaultCDNURL,
	}
}

// BrandURL is the canonical show page, used as the feed link and scraped
// for the show description.
func (c *Client) BrandURL(brandID uint64) string {
	return fmt.Sprintf("%s/brand/%d", c.siteURL, brandID)
}

// MediaURL is the canonical playback URL for an episode.
func (c *Client) MediaURL(id int64) string {
	return fmt.Sprintf("%s/audio/listen?id=%d", c.cdnURL, id)
}

// FetchCatalog retrieves and decodes the audio catalog for a brand.
func (c *Client) FetchCatalog(ctx context.Context, brandID uint64, limit int) (*Catalog, error) {
	url := fmt.Sprintf("%s/api/audios?brandId=%d&limit=%d", c.siteURL, brandID, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new catalog request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: catalog returned %s", ErrUpstream, resp.Status)
	}

	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &catalog, nil
}

// ProbeSize asks the CDN for an episode's byte size without downloading it.
func (c *Client) ProbeSize(ctx context.Context, mediaURL string) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return 0, fmt.Errorf("new probe request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", mediaURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("probe %s: status %s", mediaURL, resp.Status)
	}

	cl := resp.Header.Get("Content-Length")
	if cl == "" {
		return 0, fmt.Errorf("probe %s: no content length", mediaURL)
	}
	size, err := strconv.ParseUint(cl, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: bad content length %q: %w", mediaURL, cl, err)
	}
	return size, nil
}

// FetchBrandDescription scrapes the free-text show description from the
// brand page. Callers treat failure as an empty description.
func (c *Client) FetchBrandDescription(ctx context.Context, brandID uint64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BrandURL(brandID), nil)
	if err != nil {
		return "", fmt.Errorf("new brand page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch brand page %d: %w", brandID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("brand page %d returned %s", brandID, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse brand page %d: %w", brandID, err)
	}
	sel := doc.Find("div.brand-main-item__body").First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("brand page %d: description block not found", brandID)
	}
	return strings.Join(strings.Fields(sel.Text()), " "), nil
}
