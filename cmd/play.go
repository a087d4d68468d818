// Package cmd implements the command-line interface for jellysan.
package cmd

import (
	"fmt"
	"strings"

	"github.com/jellysan-cli/jellysan/color"
	"github.com/jellysan-cli/jellysan/icon"
	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/player"
	"github.com/jellysan-cli/jellysan/resolver"
	"github.com/jellysan-cli/jellysan/session"
	"github.com/jellysan-cli/jellysan/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntP("audio", "a", -1, "Audio stream index to play, overriding automatic selection")
	playCmd.Flags().IntP("subtitle", "s", -1, "Subtitle stream index to play")
	playCmd.Flags().Bool("no-subtitles", false, "Disable the subtitle pipeline for this session")
	playCmd.Flags().StringP("member", "m", "", "Collection member id to start at")

	playCmd.MarkFlagsMutuallyExclusive("subtitle", "no-subtitles")
}

// playCmd resolves an item by name or id and plays it.
var playCmd = &cobra.Command{
	Use:   "play <name|id>",
	Short: "Resolve an item by name or id and start playback",
	Long: `Resolve an item by name or id and start playback.
Collections (series, seasons, playlists, albums) queue their members;
playback advances through the queue automatically.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		client, err := jellyfin.New()
		handleErr(err)

		query := strings.Join(args, " ")
		itemID := query
		if !looksLikeItemID(query) {
			item, err := client.FindClosest(query)
			handleErr(err)
			itemID = item.ID

			fmt.Printf(
				"%s Playing %s\n",
				icon.Get(icon.Success),
				style.Fg(color.Purple)(item.DisplayTitle()),
			)
		}

		intent := resolver.Intent{
			ItemID:           itemID,
			MemberID:         lo.Must(cmd.Flags().GetString("member")),
			DisableSubtitles: lo.Must(cmd.Flags().GetBool("no-subtitles")),
		}
		if index := lo.Must(cmd.Flags().GetInt("audio")); index >= 0 {
			intent.AudioIndex = &index
		}
		if index := lo.Must(cmd.Flags().GetInt("subtitle")); index >= 0 {
			intent.SubtitleIndex = &index
		}

		runSession(client, intent)
	},
}

// runSession drives one sitting at the playback surface until the user
// closes it.
func runSession(client *jellyfin.Client, intent resolver.Intent) {
	surface, err := player.New()
	handleErr(err)

	sess := session.New(client, surface)
	defer sess.Exit()

	handleErr(sess.Play(intent))
	sess.Wait()
}

// looksLikeItemID reports whether the query is a server item id rather than
// a searchable name. Item ids are 32 hexadecimal digits.
func looksLikeItemID(query string) bool {
	if len(query) != 32 {
		return false
	}
	for _, r := range query {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
