package database

import (
	"time"
)

type Category struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
}

type FeedSource struct {
	ID            string
	Name          string // registry identifier derived from the config filename
	DisplayName   string // human-readable provider name
	URL           string
	CategorySlug  string
	IsActive      bool
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Article struct {
	ID            string
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	SourceURL     string
	RSSGUID       string
	CategoryID    string
	CategoryName  string // joined from categories
	CategorySlug  string // joined from categories
	Status        string
	Author        string
	IsFeatured    bool
	PublishedAt   time.Time
	CreatedAt     time.Time
	ViewCount     int
	LikeCount     int
	CommentCount  int

	ContentExtractionStatus string
	ContentExtractedAt      *time.Time
	ExtractionAttempts      int
}

// Article status values. Normal flow is one-directional
// (draft/pending -> published -> archived); admin tooling may set any.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Content extraction states.
const (
	ExtractionPending = "pending"
	ExtractionSuccess = "success"
	ExtractionFailed  = "failed"
	ExtractionSkipped = "skipped"
)
