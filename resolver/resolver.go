// Package resolver turns a play intent into everything a session needs to
// start: the ordered item list, the negotiated media source and the skip
// segments of the member about to play. Resolution is pure; it mutates no
// global state and returns a value the session applies atomically.
package resolver

import (
	"fmt"

	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Catalog is the server surface resolution needs. *jellyfin.Client satisfies
// it.
type Catalog interface {
	Item(id string) (*media.Item, error)
	Episodes(seriesID, seasonID string) ([]*media.Item, error)
	Children(parentID string) ([]*media.Item, error)
	PlaybackInfo(itemID, sourceID string, audioIndex, subtitleIndex *int) (*media.Source, error)
	Segments(itemID string) ([]media.Segment, error)
	SubtitleDeliveryURL(itemID, sourceID string, streamIndex int, format string) string
}

// Intent is the user's play request before resolution.
type Intent struct {
	// ItemID is the entry item: a playable or a collection.
	ItemID string

	// MemberID optionally names the collection member to start at.
	MemberID string

	// AudioIndex and SubtitleIndex override automatic stream selection.
	AudioIndex    *int
	SubtitleIndex *int

	// DisableSubtitles suppresses the subtitle pipeline even when the
	// negotiation declares a default track.
	DisableSubtitles bool
}

// Resolution is the complete input for starting a session.
type Resolution struct {
	Items    []*media.Item
	Index    int
	Source   *media.Source
	Segments []media.Segment
}

// Current returns the member the resolution points at.
func (r *Resolution) Current() *media.Item {
	return r.Items[r.Index]
}

// Resolve expands the intent into a play queue, negotiates playback for the
// target member and fetches its segments. Any failure before the segment
// fetch aborts the whole resolution; there is no partial result.
func Resolve(catalog Catalog, intent Intent) (*Resolution, error) {
	if catalog == nil {
		return nil, fmt.Errorf("resolve: no server client")
	}
	if intent.ItemID == "" {
		return nil, fmt.Errorf("resolve: missing item id")
	}

	entry, err := catalog.Item(intent.ItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", intent.ItemID, err)
	}

	items, index, err := strategyFor(entry.Kind).expand(catalog, entry)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", entry.Name, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("resolve %q: nothing playable", entry.Name)
	}

	if intent.MemberID != "" {
		_, idx, found := lo.FindIndexOf(items, func(i *media.Item) bool {
			return i.ID == intent.MemberID
		})
		if !found {
			return nil, fmt.Errorf("resolve %q: member %s not in resolved list", entry.Name, intent.MemberID)
		}
		index = idx
	}

	target := items[index]
	resolution := &Resolution{Items: items, Index: index}

	// Photos render without stream negotiation; the item itself is the asset.
	if target.Kind == media.KindPhoto {
		return resolution, nil
	}

	source, segments, err := Negotiate(catalog, target, intent)
	if err != nil {
		return nil, err
	}

	resolution.Source = source
	resolution.Segments = segments
	return resolution, nil
}

// Negotiate runs the second resolution round-trip for one member: playback
// info against its preferred media source, stream selection, then the
// member's segments. Queue advances re-enter here for the next member.
func Negotiate(catalog Catalog, target *media.Item, intent Intent) (*media.Source, []media.Segment, error) {
	sourceID, ok := target.PreferredSourceID().Get()
	if !ok {
		return nil, nil, fmt.Errorf("resolve %q: no media source id", target.Name)
	}

	source, err := catalog.PlaybackInfo(target.ID, sourceID, intent.AudioIndex, intent.SubtitleIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("negotiate %q: %w", target.Name, err)
	}

	if intent.AudioIndex == nil {
		source.AudioStreamIndex = chooseAudio(source)
	}
	decorateSubtitle(catalog, source, intent)

	// Segment fetch failure is not fatal; playback just loses skip support.
	segments, err := catalog.Segments(target.ID)
	if err != nil {
		log.Warnf("segments for %q: %v", target.Name, err)
		segments = nil
	}

	return source, segments, nil
}

// chooseAudio applies the automatic audio selection rule uniformly across
// kinds: a default-flagged stream wins, then the configured language
// preference, then the source's own declared default.
func chooseAudio(source *media.Source) int {
	streams := source.AudioStreams()
	if len(streams) == 0 {
		return media.NoStream
	}

	if s, ok := lo.Find(streams, func(s media.Stream) bool {
		return s.IsDefault
	}); ok {
		return s.Index
	}

	if lang := viper.GetString(key.PlaybackPreferAudioLanguage); lang != "" {
		if s, ok := lo.Find(streams, func(s media.Stream) bool {
			return s.Language == lang
		}); ok {
			return s.Index
		}
	}

	return source.DefaultAudioStreamIndex
}

// decorateSubtitle attaches the subtitle descriptor for the selected text
// stream, if any.
func decorateSubtitle(catalog Catalog, source *media.Source, intent Intent) {
	if intent.DisableSubtitles {
		source.SubtitleStreamIndex = media.NoStream
		return
	}

	index := source.SubtitleStreamIndex
	if index == media.NoStream {
		// Automatic selection is opt-out; an explicit index always wins.
		if !viper.GetBool(key.SubtitlesEnabled) {
			return
		}

		// Fall back to the source's default-flagged text stream.
		s, ok := lo.Find(source.SubtitleStreams(), func(s media.Stream) bool {
			return s.IsDefault || s.IsForced
		})
		if !ok {
			return
		}
		index = s.Index
		source.SubtitleStreamIndex = index
	}

	stream, ok := source.StreamByIndex(index)
	if !ok || stream.Type != media.StreamSubtitle {
		source.SubtitleStreamIndex = media.NoStream
		return
	}

	descriptor := &media.SubtitleDescriptor{
		Format:      stream.Codec,
		StreamIndex: stream.Index,
		Enabled:     true,
	}
	if stream.IsExternal {
		descriptor.URL = stream.DeliveryURL
		if descriptor.URL == "" {
			descriptor.URL = catalog.SubtitleDeliveryURL(source.ItemID, source.ID, stream.Index, stream.Codec)
		}
	}
	source.Subtitle = descriptor
}
