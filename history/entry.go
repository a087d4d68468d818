package history

import (
	"fmt"
	"time"

	"github.com/jellysan-cli/jellysan/media"
)

// Entry represents a single playback record preserved in the user's history.
type Entry struct {
	ItemID            string     `json:"item_id"`
	Name              string     `json:"name"`
	Kind              media.Kind `json:"kind"`
	SeriesID          string     `json:"series_id,omitempty"`
	SeriesName        string     `json:"series_name,omitempty"`
	IndexNumber       int        `json:"index_number,omitempty"`
	WatchedPercentage float64    `json:"watched_percentage"`
	WatchedAt         time.Time  `json:"watched_at"`
}

func (e *Entry) String() string {
	if e.Kind == media.KindEpisode && e.SeriesName != "" {
		return fmt.Sprintf("%s : episode %d", e.SeriesName, e.IndexNumber)
	}
	return e.Name
}

func newEntry(item *media.Item) *Entry {
	return &Entry{
		ItemID:      item.ID,
		Name:        item.Name,
		Kind:        item.Kind,
		SeriesID:    item.SeriesID,
		SeriesName:  item.SeriesName,
		IndexNumber: item.IndexNumber,
	}
}
