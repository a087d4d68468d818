// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Server Connection - these keys identify the remote media server and this client's device identity.
const (
	ServerURL      = "server.url"
	ServerUsername = "server.username"
	ServerUserID   = "server.user_id"
	ServerDeviceID = "server.device_id"
)

// Playback Orchestration - these keys govern stream resolution, reporting and queue behavior.
const (
	PlaybackPlayer               = "playback.player"
	PlaybackReportInterval       = "playback.report_interval"
	PlaybackPreferAudioLanguage  = "playback.prefer_audio_language"
	PlaybackCompletionPercentage = "playback.completion_percentage"
	PlaybackAutoSkipSegments     = "playback.auto_skip_segments"
	PlaybackControlsHideDelay    = "playback.controls_hide_delay"
)

// Subtitle Pipeline - these keys configure renderer selection and assets.
const (
	SubtitlesFontDir = "subtitles.font_dir"
	SubtitlesEnabled = "subtitles.enabled"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistorySaveOnWatch = "history.save_on_watch"
)

// Metadata Cache - these keys govern the on-disk item metadata cache.
const (
	CacheTTLHours = "cache.ttl_hours"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging - these keys configure the diagnostic log sink.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Command Line Interface - these keys define CLI presentation behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
