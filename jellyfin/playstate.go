package jellyfin

import (
	"fmt"

	"github.com/jellysan-cli/jellysan/internal/sync"
	"github.com/jellysan-cli/jellysan/log"
)

// PlaystateReport is the payload shared by the start/progress/stopped
// endpoints. Positions are in ticks; volume on the server's 0-100 scale.
type PlaystateReport struct {
	ItemID        string `json:"ItemId"`
	MediaSourceID string `json:"MediaSourceId"`
	PlaySessionID string `json:"PlaySessionId"`

	AudioStreamIndex    int `json:"AudioStreamIndex"`
	SubtitleStreamIndex int `json:"SubtitleStreamIndex"`

	PositionTicks int64 `json:"PositionTicks"`
	IsPaused      bool  `json:"IsPaused"`
	IsMuted       bool  `json:"IsMuted"`
	VolumeLevel   int   `json:"VolumeLevel"`

	CanSeek    bool   `json:"CanSeek"`
	PlayMethod string `json:"PlayMethod"`
}

// ReportStart announces a new play session to the server.
func (c *Client) ReportStart(r PlaystateReport) error {
	return c.postJSON("/Sessions/Playing", r)
}

// ReportProgress updates the server's view of the session position and state.
func (c *Client) ReportProgress(r PlaystateReport) error {
	return c.postJSON("/Sessions/Playing/Progress", r)
}

// ReportStopped closes the play session with the last known position.
func (c *Client) ReportStopped(r PlaystateReport) error {
	return c.postJSON("/Sessions/Playing/Stopped", r)
}

// Replay re-issues a previously queued status mutation by its stored path.
// Used by the offline sync reconciler at startup.
func (c *Client) Replay(path string) error {
	return c.postJSON(path, nil)
}

// MarkPlayed flags an item as watched for the authenticated user. A network
// failure commits the mutation to the offline sync queue for later
// reconciliation instead of surfacing an error.
func (c *Client) MarkPlayed(itemID string) error {
	path := fmt.Sprintf("/Users/%s/PlayedItems/%s", c.userID, itemID)
	if err := c.postJSON(path, nil); err != nil {
		log.Warnf("mark played failed, committing to offline sync queue: %v", err)
		if qErr := sync.QueueFailure(itemID, "MarkPlayed", path); qErr != nil {
			return err
		}
		return nil
	}
	return nil
}

// MarkFavorite toggles the favorite flag for an item, offline-queued on failure.
func (c *Client) MarkFavorite(itemID string, favorite bool) error {
	path := fmt.Sprintf("/Users/%s/FavoriteItems/%s", c.userID, itemID)
	action := "MarkFavorite"
	if !favorite {
		path += "/Delete"
		action = "UnmarkFavorite"
	}

	if err := c.postJSON(path, nil); err != nil {
		log.Warnf("favorite mutation failed, committing to offline sync queue: %v", err)
		if qErr := sync.QueueFailure(itemID, action, path); qErr != nil {
			return err
		}
		return nil
	}
	return nil
}
