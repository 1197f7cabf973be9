package commands

import (
	"time"

	"tubelist/lib/archive"
	"tubelist/lib/osutil"
	"tubelist/lib/scrapers/youtube"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string

func init() {
	historyDb = historyCmd.Flags().String("db", "", "The database to read, overrides the config.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [<channel url>] [--db <path/to/archive.db>]",
	Short: "Lists archived channels, or the snapshots recorded for one channel.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := openArchive(*historyDb)
		defer database.Close()
		store := archive.NewStore(database)

		if len(args) == 0 {
			channels, err := store.Channels(ctx)
			if err != nil {
				osutil.Fatal("failed to list archived channels", err)
			}

			t := newTable()
			t.AppendHeader(table.Row{"Channel", "Name", "Snapshots", "Last taken"})
			for _, channel := range channels {
				t.AppendRow(table.Row{
					channel.Uri,
					channel.Name,
					channel.Snapshots,
					channel.LastTaken.Format(time.DateTime),
				})
			}
			t.Render()
			return
		}

		uri, err := youtube.ChannelUri(args[0])
		if err != nil {
			osutil.Fatal("failed to parse channel url", err)
		}
		snapshots, err := store.History(ctx, uri)
		if err != nil {
			osutil.Fatal("failed to read snapshot history", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Kind", "Taken at", "Status", "Items"})
		for _, snapshot := range snapshots {
			t.AppendRow(table.Row{
				snapshot.Kind,
				snapshot.TakenAt.Format(time.DateTime),
				snapshot.Status,
				snapshot.Count,
			})
		}
		t.Render()
	},
}
