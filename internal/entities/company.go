package entities

import "time"

type PageType string

const (
	PageTypeListing  PageType = "listing"
	PageTypeOnePage  PageType = "one_page"
	PageTypeMain     PageType = "main"
	PageTypeExternal PageType = "external"
)

type PostType string

const (
	PostTypeText         PostType = "text"
	PostTypeImage        PostType = "image"
	PostTypeExternalLink PostType = "external_link"
)

const RecruitsURLConfirmed = "CONFIRMED"

type Company struct {
	ID                int    `gorm:"primaryKey"`
	Name              string `gorm:"uniqueIndex;size:255"`
	HomepageURL       string `gorm:"size:2083"`
	RecruitsURL       string `gorm:"size:2083"`
	RecruitsURLStatus string `gorm:"size:20"`
	PageType          PageType
	PostType          PostType
	Region            string `gorm:"size:100"`
	Industry          string `gorm:"size:100"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Discoverable reports whether the company still needs a careers page
// found: homepage known, no committed descriptor yet.
func (c Company) Discoverable() bool {
	return c.HomepageURL != "" && c.RecruitsURL == ""
}

// Collectable reports whether the extraction stage can process the
// company. Image and external-link postings are never collected here.
func (c Company) Collectable() bool {
	if c.RecruitsURL == "" || c.PostType != PostTypeText {
		return false
	}
	switch c.PageType {
	case PageTypeListing, PageTypeOnePage, PageTypeMain:
		return true
	}
	return false
}
