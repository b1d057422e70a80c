package handler

import (
	"net/http"
	"time"

	"github.com/techinsights/blog-api/internal/domain"
	"github.com/techinsights/blog-api/internal/feed"
)

// feedPageSize caps the number of posts projected into the RSS feed.
const feedPageSize = 20

// RSS handles GET /rss.xml, projecting the newest posts into an RSS 2.0 feed.
func (s *Server) RSS(w http.ResponseWriter, r *http.Request) {
	posts, _, err := s.posts.List(r.Context(), "", "", domain.PaginationParams{Page: 1, Limit: feedPageSize})
	if err != nil {
		http.Error(w, "error generating RSS feed", http.StatusInternalServerError)
		return
	}

	out, err := feed.RSS(s.baseURL, posts, time.Now())
	if err != nil {
		http.Error(w, "error generating RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	_, _ = w.Write(out)
}

// Sitemap handles GET /sitemap.xml. All posts are included; the listing is
// paged through in feed-sized chunks so one enormous query is never issued.
func (s *Server) Sitemap(w http.ResponseWriter, r *http.Request) {
	var all []domain.Post
	for page := 1; ; page++ {
		posts, pagination, err := s.posts.List(r.Context(), "", "", domain.PaginationParams{Page: page, Limit: 100})
		if err != nil {
			http.Error(w, "error generating sitemap", http.StatusInternalServerError)
			return
		}
		all = append(all, posts...)
		if !pagination.HasNext {
			break
		}
	}

	out, err := feed.Sitemap(s.baseURL, all, time.Now())
	if err != nil {
		http.Error(w, "error generating sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (s *Server) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(feed.Robots(s.baseURL))
}
