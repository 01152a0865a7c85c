package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ResolveSourceURL fetches an HTML release page and returns the href of the
// first element matched by the CSS selector, resolved against the page URL.
// WHO publishes release listings rather than stable file URLs, so the
// selector lets config point at the page instead of a direct link.
func ResolveSourceURL(pageURL string, selector string, timeout time.Duration) (string, error) {
	client := http.Client{Timeout: timeout}

	resp, err := client.Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch release page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release page %s returned status code %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse release page %s: %w", pageURL, err)
	}

	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return "", fmt.Errorf("selector %q matched no link on %s", selector, pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid release page URL %s: %w", pageURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q on release page: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
