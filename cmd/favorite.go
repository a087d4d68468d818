// Package cmd implements the command-line interface for jellysan.
package cmd

import (
	"fmt"
	"strings"

	"github.com/jellysan-cli/jellysan/color"
	"github.com/jellysan-cli/jellysan/icon"
	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(favoriteCmd)

	favoriteCmd.Flags().BoolP("remove", "r", false, "Remove the favorite flag instead of setting it")
}

// favoriteCmd toggles the server-side favorite flag for an item.
var favoriteCmd = &cobra.Command{
	Use:     "favorite <name|id>",
	Aliases: []string{"fav"},
	Short:   "Mark an item as a favorite on the server",
	Long: `Mark an item as a favorite on the server.
When the server is unreachable the change is queued locally and replayed
on the next start.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := jellyfin.New()
		handleErr(err)

		query := strings.Join(args, " ")

		var item *media.Item
		if looksLikeItemID(query) {
			item, err = client.Item(query)
		} else {
			item, err = client.FindClosest(query)
		}
		handleErr(err)

		remove := lo.Must(cmd.Flags().GetBool("remove"))
		handleErr(client.MarkFavorite(item.ID, !remove))

		verb, direction := "Added", "to"
		if remove {
			verb, direction = "Removed", "from"
		}
		fmt.Printf(
			"%s %s %s %s favorites\n",
			icon.Get(icon.Success),
			verb,
			style.Fg(color.Purple)(item.DisplayTitle()),
			direction,
		)
	},
}
