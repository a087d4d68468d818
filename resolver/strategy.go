package resolver

import (
	"fmt"

	"github.com/jellysan-cli/jellysan/media"
	"github.com/samber/lo"
)

// strategy expands one entry item into the ordered list the queue will hold,
// plus the default start index within it.
type strategy interface {
	expand(catalog Catalog, entry *media.Item) ([]*media.Item, int, error)
}

func strategyFor(kind media.Kind) strategy {
	switch kind {
	case media.KindSeries:
		return seriesStrategy{}
	case media.KindSeason:
		return seasonStrategy{}
	case media.KindEpisode:
		return episodeStrategy{}
	case media.KindPlaylist, media.KindAlbum, media.KindArtist, media.KindBoxSet:
		return childrenStrategy{}
	default:
		return singletonStrategy{}
	}
}

// singletonStrategy covers movies, photos, standalone audio and anything
// unrecognized: the entry plays alone.
type singletonStrategy struct{}

func (singletonStrategy) expand(_ Catalog, entry *media.Item) ([]*media.Item, int, error) {
	return []*media.Item{entry}, 0, nil
}

// seriesStrategy queues every episode of the series, starting at the first
// unplayed one.
type seriesStrategy struct{}

func (seriesStrategy) expand(catalog Catalog, entry *media.Item) ([]*media.Item, int, error) {
	episodes, err := catalog.Episodes(entry.ID, "")
	if err != nil {
		return nil, 0, err
	}
	return episodes, firstUnplayed(episodes), nil
}

// seasonStrategy queues the episodes of one season.
type seasonStrategy struct{}

func (seasonStrategy) expand(catalog Catalog, entry *media.Item) ([]*media.Item, int, error) {
	if entry.SeriesID == "" {
		return nil, 0, fmt.Errorf("season %s has no series", entry.ID)
	}

	episodes, err := catalog.Episodes(entry.SeriesID, entry.ID)
	if err != nil {
		return nil, 0, err
	}
	return episodes, firstUnplayed(episodes), nil
}

// episodeStrategy queues the episode's whole season so the session can
// auto-advance past it.
type episodeStrategy struct{}

func (episodeStrategy) expand(catalog Catalog, entry *media.Item) ([]*media.Item, int, error) {
	if entry.SeriesID == "" {
		return []*media.Item{entry}, 0, nil
	}

	episodes, err := catalog.Episodes(entry.SeriesID, entry.SeasonID)
	if err != nil {
		return nil, 0, err
	}

	_, idx, found := lo.FindIndexOf(episodes, func(i *media.Item) bool {
		return i.ID == entry.ID
	})
	if !found {
		return nil, 0, fmt.Errorf("episode %s not in resolved list", entry.ID)
	}
	return episodes, idx, nil
}

// childrenStrategy queues the members of a flat collection in server order.
type childrenStrategy struct{}

func (childrenStrategy) expand(catalog Catalog, entry *media.Item) ([]*media.Item, int, error) {
	children, err := catalog.Children(entry.ID)
	if err != nil {
		return nil, 0, err
	}
	return children, 0, nil
}

func firstUnplayed(items []*media.Item) int {
	_, idx, found := lo.FindIndexOf(items, func(i *media.Item) bool {
		return !i.UserData.Played
	})
	if !found {
		return 0
	}
	return idx
}
