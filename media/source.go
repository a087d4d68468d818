package media

import "github.com/samber/lo"

// StreamType discriminates the streams inside a media source.
type StreamType string

const (
	StreamVideo    StreamType = "Video"
	StreamAudio    StreamType = "Audio"
	StreamSubtitle StreamType = "Subtitle"
)

// Stream describes one elementary stream of a media source.
type Stream struct {
	Index       int        `json:"index"`
	Type        StreamType `json:"type"`
	Codec       string     `json:"codec"`
	Language    string     `json:"language,omitempty"`
	Title       string     `json:"title,omitempty"`
	IsDefault   bool       `json:"is_default"`
	IsForced    bool       `json:"is_forced"`
	IsExternal  bool       `json:"is_external"`
	DeliveryURL string     `json:"delivery_url,omitempty"`
}

// SubtitleDescriptor is the resolved subtitle choice for one playback attempt.
// URL is empty for embedded tracks the surface demuxes itself.
type SubtitleDescriptor struct {
	Format      string `json:"format"`
	URL         string `json:"url,omitempty"`
	StreamIndex int    `json:"stream_index"`
	Enabled     bool   `json:"enabled"`
}

// Embedded reports whether the track is muxed into the container and must be
// selected on the surface rather than fetched.
func (d *SubtitleDescriptor) Embedded() bool {
	return d.URL == ""
}

// Source is the MediaSourceDescriptor negotiated for exactly one item at
// session start: the concrete container, stream URL and stream indices the
// server committed to. It lives for one playback attempt; changing stream
// selection requires re-resolution.
type Source struct {
	ID            string `json:"id"`
	ItemID        string `json:"item_id"`
	Container     string `json:"container"`
	URL           string `json:"url"`
	PlaySessionID string `json:"play_session_id"`
	Transcoding   bool   `json:"transcoding"`

	VideoStreamIndex    int `json:"video_stream_index"`
	AudioStreamIndex    int `json:"audio_stream_index"`
	SubtitleStreamIndex int `json:"subtitle_stream_index"`

	DefaultAudioStreamIndex int `json:"default_audio_stream_index"`

	Streams  []Stream            `json:"streams"`
	Subtitle *SubtitleDescriptor `json:"subtitle,omitempty"`
}

// AudioStreams returns the audio streams in declaration order.
func (s *Source) AudioStreams() []Stream {
	return lo.Filter(s.Streams, func(st Stream, _ int) bool {
		return st.Type == StreamAudio
	})
}

// SubtitleStreams returns the subtitle streams in declaration order.
func (s *Source) SubtitleStreams() []Stream {
	return lo.Filter(s.Streams, func(st Stream, _ int) bool {
		return st.Type == StreamSubtitle
	})
}

// StreamByIndex looks a stream up by its source-declared index.
func (s *Source) StreamByIndex(index int) (Stream, bool) {
	return lo.Find(s.Streams, func(st Stream) bool {
		return st.Index == index
	})
}

// NoStream marks an intentionally unselected stream index (e.g. subtitles off).
const NoStream = -1
