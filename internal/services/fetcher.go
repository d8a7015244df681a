package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	maxJobAdBodyBytes = 2 << 20
	fetchUserAgent    = "Mozilla/5.0 (compatible; resume-matcher/1.0)"
)

// JobAdFetcher downloads the job advertisement behind a URL.
type JobAdFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type jobAdFetcher struct {
	httpClient *http.Client
}

func NewJobAdFetcher(timeout time.Duration) JobAdFetcher {
	return &jobAdFetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch implements JobAdFetcher. HTML is reduced to its visible text; other
// content types are returned as they are.
func (f *jobAdFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("invalid job ad URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job ad: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("job ad URL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJobAdBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read job ad: %w", err)
	}

	content := string(body)
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "html") || (contentType == "" && looksLikeHTML(content)) {
		content = markupToText(content)
	}

	content = CleanText(content)
	if content == "" {
		return "", errors.New("fetched job ad is empty")
	}

	return content, nil
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true, "header": true, "footer": true,
	"w:p": true, "w:br": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "svg": true, "head": true,
}

// markupToText keeps the character data of an HTML or XML document, turning
// block-level elements into line breaks.
func markupToText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[tag] {
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tag] {
				b.WriteString("\n")
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func looksLikeHTML(content string) bool {
	head := strings.ToLower(TruncateText(strings.TrimSpace(content), 512))
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}
