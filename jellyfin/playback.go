package jellyfin

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jellysan-cli/jellysan/media"
	"github.com/samber/lo"
)

// playbackInfoRequest is the negotiation payload. The device profile is left
// to the server's defaults; the surface (mpv) plays virtually anything, so
// the server only transcodes when the container itself is unstreamable.
type playbackInfoRequest struct {
	UserID              string `json:"UserId"`
	MediaSourceID       string `json:"MediaSourceId,omitempty"`
	AudioStreamIndex    *int   `json:"AudioStreamIndex,omitempty"`
	SubtitleStreamIndex *int   `json:"SubtitleStreamIndex,omitempty"`
	AutoOpenLiveStream  bool   `json:"AutoOpenLiveStream"`
}

type streamDTO struct {
	Index        int    `json:"Index"`
	Type         string `json:"Type"`
	Codec        string `json:"Codec"`
	Language     string `json:"Language"`
	DisplayTitle string `json:"DisplayTitle"`
	IsDefault    bool   `json:"IsDefault"`
	IsForced     bool   `json:"IsForced"`
	IsExternal   bool   `json:"IsExternal"`
	DeliveryURL  string `json:"DeliveryUrl"`
}

type mediaSourceDTO struct {
	ID                      string      `json:"Id"`
	Container               string      `json:"Container"`
	SupportsDirectPlay      bool        `json:"SupportsDirectPlay"`
	SupportsDirectStream    bool        `json:"SupportsDirectStream"`
	TranscodingURL          string      `json:"TranscodingUrl"`
	DefaultAudioStreamIndex int         `json:"DefaultAudioStreamIndex"`
	MediaStreams            []streamDTO `json:"MediaStreams"`
}

type playbackInfoResponse struct {
	MediaSources  []mediaSourceDTO `json:"MediaSources"`
	PlaySessionID string           `json:"PlaySessionId"`
	ErrorCode     string           `json:"ErrorCode"`
}

// PlaybackInfo negotiates the concrete playback parameters for one item
// against its preferred media source: container, direct-play vs transcode
// URL, stream indices and the play session token correlating all subsequent
// playstate reports.
func (c *Client) PlaybackInfo(itemID, sourceID string, audioIndex, subtitleIndex *int) (*media.Source, error) {
	if itemID == "" {
		return nil, fmt.Errorf("missing item id")
	}

	req := playbackInfoRequest{
		UserID:              c.userID,
		MediaSourceID:       sourceID,
		AudioStreamIndex:    audioIndex,
		SubtitleStreamIndex: subtitleIndex,
		AutoOpenLiveStream:  true,
	}

	var resp playbackInfoResponse
	if err := c.postJSONResponse(fmt.Sprintf("/Items/%s/PlaybackInfo", itemID), req, &resp); err != nil {
		return nil, err
	}

	if resp.ErrorCode != "" {
		return nil, fmt.Errorf("playback negotiation rejected: %s", resp.ErrorCode)
	}
	if len(resp.MediaSources) == 0 {
		return nil, fmt.Errorf("playback negotiation returned no media source")
	}

	// The server orders sources by preference; the first one is authoritative.
	dto := resp.MediaSources[0]

	src := &media.Source{
		ID:                      dto.ID,
		ItemID:                  itemID,
		Container:               dto.Container,
		PlaySessionID:           resp.PlaySessionID,
		DefaultAudioStreamIndex: dto.DefaultAudioStreamIndex,
		VideoStreamIndex:        media.NoStream,
		AudioStreamIndex:        media.NoStream,
		SubtitleStreamIndex:     media.NoStream,
		Streams: lo.Map(dto.MediaStreams, func(s streamDTO, _ int) media.Stream {
			return media.Stream{
				Index:       s.Index,
				Type:        media.StreamType(s.Type),
				Codec:       strings.ToLower(s.Codec),
				Language:    s.Language,
				Title:       s.DisplayTitle,
				IsDefault:   s.IsDefault,
				IsForced:    s.IsForced,
				IsExternal:  s.IsExternal,
				DeliveryURL: c.absolute(s.DeliveryURL),
			}
		}),
	}

	if dto.TranscodingURL != "" && !dto.SupportsDirectPlay && !dto.SupportsDirectStream {
		src.Transcoding = true
		src.URL = c.absolute(dto.TranscodingURL)
	} else {
		src.URL = c.streamURL(itemID, dto.ID, dto.Container)
	}

	if video, ok := lo.Find(src.Streams, func(s media.Stream) bool {
		return s.Type == media.StreamVideo
	}); ok {
		src.VideoStreamIndex = video.Index
	}

	if audioIndex != nil {
		src.AudioStreamIndex = *audioIndex
	}
	if subtitleIndex != nil {
		src.SubtitleStreamIndex = *subtitleIndex
	}

	return src, nil
}

type segmentDTO struct {
	Type       string `json:"Type"`
	StartTicks int64  `json:"StartTicks"`
	EndTicks   int64  `json:"EndTicks"`
}

type segmentsPage struct {
	Items []segmentDTO `json:"Items"`
}

// Segments fetches the server-declared skip windows for an item.
// Returns an empty slice (not an error) when the server declares none.
func (c *Client) Segments(itemID string) ([]media.Segment, error) {
	if itemID == "" {
		return nil, fmt.Errorf("missing item id")
	}

	var page segmentsPage
	if err := c.getJSON(fmt.Sprintf("/MediaSegments/%s", itemID), nil, &page); err != nil {
		return nil, err
	}

	return lo.Map(page.Items, func(d segmentDTO, _ int) media.Segment {
		return media.Segment{
			Type:       media.SegmentType(d.Type),
			StartTicks: d.StartTicks,
			EndTicks:   d.EndTicks,
		}
	}), nil
}

// SubtitleDeliveryURL builds the delivery URL for an external subtitle
// stream converted to the requested format.
func (c *Client) SubtitleDeliveryURL(itemID, sourceID string, streamIndex int, format string) string {
	q := url.Values{}
	q.Set("api_key", c.token)
	return c.endpoint(fmt.Sprintf(
		"/Videos/%s/%s/Subtitles/%s/Stream.%s",
		itemID, sourceID, strconv.Itoa(streamIndex), format,
	), q)
}
