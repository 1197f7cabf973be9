package commands

import (
	"tubelist/lib/scrapers/youtube/innertube"

	"github.com/spf13/cobra"
)

var shortsUntil *string
var shortsLimit *int
var shortsCount *bool

func init() {
	shortsUntil = shortsCmd.Flags().String("until", "", "Stop walking before this short id or /shorts reference.")
	shortsLimit = shortsCmd.Flags().Int("limit", 0, "Stop after this many items, 0 walks the whole listing.")
	shortsCount = shortsCmd.Flags().Bool("count", false, "Print only the number of items walked.")
	rootCmd.AddCommand(shortsCmd)
}

var shortsCmd = &cobra.Command{
	Use:   "shorts <channel url> [--until <id>] [--limit <n>] [--count]",
	Short: "Lists a channel's shorts, newest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runListing(cmd.Context(), args[0], innertube.KindShorts, *shortsUntil, *shortsLimit, *shortsCount)
	},
}
