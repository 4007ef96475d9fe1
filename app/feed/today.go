package feed

import (
	"time"
)

// FilterToday restricts items to those published within the server-local
// calendar day containing now. Items without a usable publish date are
// kept: a missing pubDate is treated as "published now" further down the
// pipeline, which places it inside today's window.
func FilterToday(items []Item, now time.Time) []Item {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.PublishedAt.IsZero() {
			filtered = append(filtered, item)
			continue
		}
		published := item.PublishedAt.In(now.Location())
		if !published.Before(dayStart) && published.Before(dayEnd) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
