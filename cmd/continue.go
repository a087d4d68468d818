// Package cmd implements the command-line interface for jellysan.
package cmd

import (
	"errors"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jellysan-cli/jellysan/history"
	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/resolver"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(continueCmd)

	continueCmd.Flags().BoolP("latest", "l", false, "Resume the most recent history entry without prompting")
}

// continueCmd resumes playback from the watch history.
var continueCmd = &cobra.Command{
	Use:     "continue",
	Short:   "Resume playback from the watch history",
	Aliases: []string{"c"},
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		client, err := jellyfin.New()
		handleErr(err)

		saved, err := history.Get()
		handleErr(err)
		if len(saved) == 0 {
			handleErr(errors.New("watch history is empty"))
		}

		entries := lo.Values(saved)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].WatchedAt.After(entries[j].WatchedAt)
		})

		entry := entries[0]
		if !lo.Must(cmd.Flags().GetBool("latest")) && len(entries) > 1 {
			options := lo.Map(entries, func(e *history.Entry, _ int) string {
				return e.String()
			})

			prompt := survey.Select{
				Message: "Resume what?",
				Options: options,
				Default: options[0],
			}

			var picked int
			handleErr(survey.AskOne(&prompt, &picked))
			entry = entries[picked]
		}

		runSession(client, resolver.Intent{ItemID: entry.ItemID})
	},
}
