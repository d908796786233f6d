// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the sitemap of the portfolio front end.
package seo

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the portfolio.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL is a single URL entry.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap is the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder collects front-end URLs. Blog posts live at
// {site}/blog/{slug} and projects at {site}/projects/{id}.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder for siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// AddHomepage adds the site root and the blog and projects index pages.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqWeekly, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/projects", ChangeFreq: ChangeFreqWeekly, Priority: "0.9"},
		SitemapURL{Loc: b.siteURL + "/blog", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
	)
}

// AddBlogPost adds a published post.
func (b *SitemapBuilder) AddBlogPost(slug string, updatedAt time.Time) {
	b.add(b.siteURL+"/blog/"+slug, updatedAt, ChangeFreqMonthly, "0.7")
}

// AddProject adds a project page.
func (b *SitemapBuilder) AddProject(id int64, updatedAt time.Time) {
	b.add(b.siteURL+"/projects/"+strconv.FormatInt(id, 10), updatedAt, ChangeFreqMonthly, "0.6")
}

func (b *SitemapBuilder) add(loc string, updatedAt time.Time, freq ChangeFreq, priority string) {
	u := SitemapURL{Loc: loc, ChangeFreq: freq, Priority: priority}
	if !updatedAt.IsZero() {
		u.LastMod = updatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build renders the sitemap XML with its header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	out, err := xml.MarshalIndent(Sitemap{XMLNS: XMLNamespace, URLs: b.urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
