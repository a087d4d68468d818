package player

import (
	"fmt"

	"github.com/jellysan-cli/jellysan/key"
	"github.com/spf13/viper"
)

// New constructs the configured playback surface backend.
func New() (Surface, error) {
	backend := viper.GetString(key.PlaybackPlayer)
	switch backend {
	case "", "mpv":
		return NewMPV(), nil
	case "iina":
		return NewIINA(), nil
	default:
		return nil, fmt.Errorf("unknown playback surface %q", backend)
	}
}
