package main

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// skipDirs are subtrees never listed in the sitemap.
var skipDirs = map[string]bool{
	"private":    true,
	"dist":       true,
	"unfinished": true,
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GenerateSitemap walks dir for HTML pages and writes dir/sitemap.xml
// with one entry per indexable page. Pages under skipDirs subtrees and
// pages carrying a robots noindex meta tag are excluded. Returns the
// number of entries written.
func GenerateSitemap(dir, baseURL string) (int, error) {
	set := &urlSet{Xmlns: sitemapNamespace}
	base := strings.TrimRight(baseURL, "/")

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		indexable, err := pageIndexable(path)
		if err != nil {
			log.Printf("Skipping %s: %v", rel, err)
			return nil
		}
		if !indexable {
			return nil
		}

		urlPath := filepath.ToSlash(rel)
		urlPath = strings.TrimSuffix(urlPath, "index.html")

		entry := sitemapURL{Loc: base + "/" + escapePath(urlPath)}
		if info, err := d.Info(); err == nil {
			entry.LastMod = info.ModTime().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", dir, err)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling sitemap: %w", err)
	}

	target := filepath.Join(dir, "sitemap.xml")
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')
	if err := os.WriteFile(target, data, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", target, err)
	}

	return len(set.URLs), nil
}

// pageIndexable reports whether the page lacks a robots noindex directive.
func pageIndexable(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return false, err
	}

	noindex := false
	doc.Find(`meta[name="robots"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok && strings.Contains(strings.ToLower(content), "noindex") {
			noindex = true
		}
	})

	return !noindex, nil
}

// escapePath percent-encodes a relative URL path, segment by segment.
func escapePath(p string) string {
	u := url.URL{Path: p}
	return strings.TrimPrefix(u.EscapedPath(), "/")
}
