package commands

import (
	"tubelist/lib/scrapers/youtube/innertube"

	"github.com/spf13/cobra"
)

var videosUntil *string
var videosLimit *int
var videosCount *bool

func init() {
	videosUntil = videosCmd.Flags().String("until", "", "Stop walking before this video id or /watch reference.")
	videosLimit = videosCmd.Flags().Int("limit", 0, "Stop after this many items, 0 walks the whole listing.")
	videosCount = videosCmd.Flags().Bool("count", false, "Print only the number of items walked.")
	rootCmd.AddCommand(videosCmd)
}

var videosCmd = &cobra.Command{
	Use:   "videos <channel url> [--until <id>] [--limit <n>] [--count]",
	Short: "Lists a channel's uploads, newest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runListing(cmd.Context(), args[0], innertube.KindVideos, *videosUntil, *videosLimit, *videosCount)
	},
}
