package media

import "github.com/samber/mo"

// Kind is the variant tag for catalog item types. Resolution strategy is
// dispatched on it, so every playable shape the server can return has a
// variant here.
type Kind string

const (
	KindMovie    Kind = "Movie"
	KindEpisode  Kind = "Episode"
	KindSeries   Kind = "Series"
	KindSeason   Kind = "Season"
	KindPlaylist Kind = "Playlist"
	KindAlbum    Kind = "MusicAlbum"
	KindArtist   Kind = "MusicArtist"
	KindAudio    Kind = "Audio"
	KindBoxSet   Kind = "BoxSet"
	KindPhoto    Kind = "Photo"
	KindDefault  Kind = ""
)

// IsCollection reports whether playing this kind means playing its members
// rather than the item itself.
func (k Kind) IsCollection() bool {
	switch k {
	case KindSeries, KindSeason, KindPlaylist, KindAlbum, KindArtist, KindBoxSet:
		return true
	default:
		return false
	}
}

// UserData carries the server-side per-user playback state of an item.
type UserData struct {
	PositionTicks int64 `json:"playback_position_ticks"`
	Played        bool  `json:"played"`
	Favorite      bool  `json:"is_favorite"`
}

// Item is an immutable snapshot of a catalog entry. The engine never mutates
// it, except to refresh UserData after a report round-trip.
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         Kind     `json:"type"`
	RuntimeTicks int64    `json:"runtime_ticks"`
	IndexNumber  int      `json:"index_number"`
	SeriesID     string   `json:"series_id,omitempty"`
	SeriesName   string   `json:"series_name,omitempty"`
	SeasonID     string   `json:"season_id,omitempty"`
	ParentID     string   `json:"parent_id,omitempty"`
	SourceIDs    []string `json:"media_source_ids,omitempty"`
	UserData     UserData `json:"user_data"`
}

func (i *Item) String() string {
	return i.Name
}

// DisplayTitle returns the title shown on the playback surface, including the
// series context for episodes.
func (i *Item) DisplayTitle() string {
	if i.Kind == KindEpisode && i.SeriesName != "" {
		return i.SeriesName + " - " + i.Name
	}
	return i.Name
}

// PreferredSourceID returns the first declared media source id, if any.
func (i *Item) PreferredSourceID() mo.Option[string] {
	if len(i.SourceIDs) == 0 {
		return mo.None[string]()
	}
	return mo.Some(i.SourceIDs[0])
}

// ResumePositionTicks returns the last-known server-side position, zero for
// items never started or already played to completion.
func (i *Item) ResumePositionTicks() int64 {
	if i.UserData.Played {
		return 0
	}
	return i.UserData.PositionTicks
}
