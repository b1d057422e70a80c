// Package feed projects the post list into the SEO output formats the site
// serves alongside the JSON API: an RSS 2.0 feed, an XML sitemap, and
// robots.txt. All three are read-only consumers of the query side.
package feed

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/techinsights/blog-api/internal/domain"
)

const (
	siteTitle       = "TechInsights - IT Blog & Technology News"
	siteDescription = "Explore the latest in technology, programming, and IT insights. Your go-to source for tech trends, tutorials, and industry analysis."

	// descriptionLimit caps the plain-text description of an RSS item.
	descriptionLimit = 300
)

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Atom    string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	AtomLink      atomLink  `xml:"atom:link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	TTL           int       `xml:"ttl"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Description string   `xml:"description"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSS renders an RSS 2.0 feed for the given posts, expected newest first.
// Descriptions are the post content stripped of HTML and truncated.
func RSS(baseURL string, posts []domain.Post, now time.Time) ([]byte, error) {
	items := make([]rssItem, len(posts))
	for i, p := range posts {
		link := fmt.Sprintf("%s/blog/%s", baseURL, p.Slug)
		items[i] = rssItem{
			Title:       p.Title,
			Description: truncate(stripHTML(p.Content), descriptionLimit),
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			PubDate:     p.CreatedAt.UTC().Format(time.RFC1123Z),
			Categories:  p.Tags,
		}
	}

	doc := rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:         siteTitle,
			Description:   siteDescription,
			Link:          baseURL,
			AtomLink:      atomLink{Href: baseURL + "/rss.xml", Rel: "self", Type: "application/rss+xml"},
			Language:      "en-US",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			TTL:           60,
			Items:         items,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed.RSS: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap renders an XML sitemap: the static pages plus one URL per post,
// with lastmod taken from the post's updatedAt.
func Sitemap(baseURL string, posts []domain.Post, now time.Time) ([]byte, error) {
	urls := []sitemapURL{
		{Loc: baseURL, LastMod: now.UTC().Format("2006-01-02"), ChangeFreq: "daily", Priority: "1.0"},
		{Loc: baseURL + "/blog", LastMod: now.UTC().Format("2006-01-02"), ChangeFreq: "daily", Priority: "0.9"},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/blog/%s", baseURL, p.Slug),
			LastMod:    p.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	doc := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: urls}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed.Sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders robots.txt: public pages crawlable, admin and API not,
// with a pointer to the sitemap.
func Robots(baseURL string) []byte {
	return []byte(`User-agent: *
Allow: /
Allow: /blog
Allow: /blog/*

Disallow: /admin
Disallow: /admin/*
Disallow: /api/*

Sitemap: ` + baseURL + `/sitemap.xml

Crawl-delay: 1
`)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup so rich-text content can be used as a plain-text
// description. Collapses the whitespace left behind by removed tags.
func stripHTML(s string) string {
	return strings.Join(strings.Fields(tagPattern.ReplaceAllString(s, " ")), " ")
}

// truncate cuts s to at most limit runes, appending an ellipsis when
// anything was removed.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
