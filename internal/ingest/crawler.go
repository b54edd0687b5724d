package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is one crawled page's extracted text.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Crawler walks a website breadth-first, staying on the start host, and
// extracts readable text from each page.
type Crawler interface {
	Crawl(ctx context.Context, startURL string, maxPages int) ([]Page, error)
}

type crawler struct {
	client *http.Client
}

func NewCrawler() Crawler {
	return &crawler{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *crawler) Crawl(ctx context.Context, startURL string, maxPages int) ([]Page, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		return nil, fmt.Errorf("invalid start URL %q", startURL)
	}
	if maxPages <= 0 {
		maxPages = 50
	}

	queue := []string{start.String()}
	visited := map[string]bool{}
	var pages []Page

	for len(queue) > 0 && len(pages) < maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		pageURL := queue[0]
		queue = queue[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		page, links, err := c.fetch(ctx, pageURL)
		if err != nil {
			slog.WarnContext(ctx, "skipping page", "url", pageURL, "error", err)
			continue
		}
		if strings.TrimSpace(page.Text) != "" {
			pages = append(pages, page)
		}

		for _, link := range links {
			resolved := resolveLink(start, link)
			if resolved != "" && !visited[resolved] {
				queue = append(queue, resolved)
			}
		}
	}

	slog.InfoContext(ctx, "crawl finished", "start_url", startURL, "pages", len(pages))
	return pages, nil
}

func (c *crawler) fetch(ctx context.Context, pageURL string) (Page, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, nil, err
	}
	req.Header.Set("User-Agent", "brightdesk-chat-crawler/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return Page{}, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return Page{}, nil, fmt.Errorf("unsupported content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Page{}, nil, fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})

	page := Page{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  normalizeWhitespace(doc.Find("body").Text()),
	}
	return page, links, nil
}

// resolveLink returns the absolute same-host URL for href, or "" when the
// link leaves the site or isn't crawlable.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
