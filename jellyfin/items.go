package jellyfin

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jellysan-cli/jellysan/internal/cache"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// itemDTO mirrors the server's item shape for the fields playback needs.
type itemDTO struct {
	ID           string         `json:"Id"`
	Name         string         `json:"Name"`
	Type         string         `json:"Type"`
	RunTimeTicks int64          `json:"RunTimeTicks"`
	IndexNumber  int            `json:"IndexNumber"`
	SeriesID     string         `json:"SeriesId"`
	SeriesName   string         `json:"SeriesName"`
	SeasonID     string         `json:"SeasonId"`
	ParentID     string         `json:"ParentId"`
	MediaSources []sourceRefDTO `json:"MediaSources"`
	UserData     struct {
		PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
		Played                bool  `json:"Played"`
		IsFavorite            bool  `json:"IsFavorite"`
	} `json:"UserData"`
}

// sourceRefDTO is the id-only media source reference embedded in item lists.
type sourceRefDTO struct {
	ID string `json:"Id"`
}

type itemsPage struct {
	Items []itemDTO `json:"Items"`
}

func (d itemDTO) toItem() *media.Item {
	return &media.Item{
		ID:           d.ID,
		Name:         d.Name,
		Kind:         media.Kind(d.Type),
		RuntimeTicks: d.RunTimeTicks,
		IndexNumber:  d.IndexNumber,
		SeriesID:     d.SeriesID,
		SeriesName:   d.SeriesName,
		SeasonID:     d.SeasonID,
		ParentID:     d.ParentID,
		SourceIDs: lo.Map(d.MediaSources, func(s sourceRefDTO, _ int) string {
			return s.ID
		}),
		UserData: media.UserData{
			PositionTicks: d.UserData.PlaybackPositionTicks,
			Played:        d.UserData.Played,
			Favorite:      d.UserData.IsFavorite,
		},
	}
}

// Item fetches a single catalog item by id. Lookups are served from the
// localized metadata cache when fresh.
func (c *Client) Item(id string) (*media.Item, error) {
	if id == "" {
		return nil, fmt.Errorf("missing item id")
	}

	cacheKey := cache.GenerateKey("item:"+id, c.baseURL)
	var cached media.Item
	if cache.Read(cacheKey, &cached) {
		return &cached, nil
	}

	var dto itemDTO
	q := url.Values{}
	q.Set("Fields", "MediaSources")
	if err := c.getJSON(fmt.Sprintf("/Users/%s/Items/%s", c.userID, id), q, &dto); err != nil {
		return nil, err
	}

	item := dto.toItem()
	if err := cache.Write(cacheKey, item); err != nil {
		log.Warnf("item cache write failed: %v", err)
	}
	return item, nil
}

// Episodes lists the episodes of a series, optionally narrowed to one season,
// in playback order.
func (c *Client) Episodes(seriesID, seasonID string) ([]*media.Item, error) {
	if seriesID == "" {
		return nil, fmt.Errorf("missing series id")
	}

	q := url.Values{}
	q.Set("UserId", c.userID)
	q.Set("Fields", "MediaSources")
	if seasonID != "" {
		q.Set("SeasonId", seasonID)
	}

	var page itemsPage
	if err := c.getJSON(fmt.Sprintf("/Shows/%s/Episodes", seriesID), q, &page); err != nil {
		return nil, err
	}

	return lo.Map(page.Items, func(d itemDTO, _ int) *media.Item {
		return d.toItem()
	}), nil
}

// Children lists the playable members of a container item (playlist, album,
// artist, box set) in the server's declared order.
func (c *Client) Children(parentID string) ([]*media.Item, error) {
	if parentID == "" {
		return nil, fmt.Errorf("missing parent id")
	}

	q := url.Values{}
	q.Set("ParentId", parentID)
	q.Set("Fields", "MediaSources")

	var page itemsPage
	if err := c.getJSON(fmt.Sprintf("/Users/%s/Items", c.userID), q, &page); err != nil {
		return nil, err
	}

	return lo.Map(page.Items, func(d itemDTO, _ int) *media.Item {
		return d.toItem()
	}), nil
}

// FindClosest searches the catalog by name and returns the closest match by
// Levenshtein distance. It is the entry point for play-by-name intents.
func (c *Client) FindClosest(name string) (*media.Item, error) {
	q := url.Values{}
	q.Set("SearchTerm", name)
	q.Set("Recursive", "true")
	q.Set("Fields", "MediaSources")
	q.Set("Limit", "25")

	var page itemsPage
	if err := c.getJSON(fmt.Sprintf("/Users/%s/Items", c.userID), q, &page); err != nil {
		return nil, err
	}

	if len(page.Items) == 0 {
		return nil, fmt.Errorf("no item matching %q found", name)
	}

	closest := lo.MinBy(page.Items, func(a, b itemDTO) bool {
		return levenshtein.Distance(strings.ToLower(a.Name), strings.ToLower(name)) <
			levenshtein.Distance(strings.ToLower(b.Name), strings.ToLower(name))
	})

	return closest.toItem(), nil
}
