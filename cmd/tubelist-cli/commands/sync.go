package commands

import (
	"errors"
	"log/slog"
	"time"

	"tubelist/lib/archive"
	"tubelist/lib/osutil"
	"tubelist/lib/scrapers/youtube"

	"github.com/spf13/cobra"
)

var syncDb *string
var syncIncremental *bool

func init() {
	syncDb = syncCmd.Flags().String("db", "", "The database to write snapshots to, overrides the config.")
	syncIncremental = syncCmd.Flags().Bool("incremental", false, "Stop each walk at the head of the previous snapshot and merge.")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync <channel url>... [--db <path/to/archive.db>] [--incremental]",
	Short: "Walks each channel's videos and shorts and archives a snapshot of both.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := openArchive(*syncDb)
		defer database.Close()
		store := archive.NewStore(database)

		client := newClient()

		for _, rawUrl := range args {
			channel, err := youtube.NewChannel(client, rawUrl)
			if err != nil {
				osutil.Fatal("failed to parse channel url", err)
			}
			name, err := channel.Name(ctx)
			if err != nil {
				osutil.Fatal("failed to fetch channel page", err)
			}

			t1 := time.Now()
			for _, listing := range []*youtube.Listing{channel.Videos(), channel.Shorts()} {
				kind := listing.Kind()

				var previous archive.Snapshot
				if *syncIncremental {
					previous, err = store.Pull(ctx, channel.Uri(), kind.String())
					if err != nil && !errors.Is(err, archive.NoSnapshot) {
						osutil.Fatal("failed to read the previous snapshot", err)
					}
					if len(previous.Refs) > 0 {
						listing = listing.Until(previous.Refs[0])
					}
				}

				refs, err := listing.All(ctx)
				if err != nil {
					osutil.Fatal("failed to walk listing", err)
				}
				// a walk cut short at the previous head only saw the new
				// items, the rest still comes from the last snapshot. an
				// exhausted walk is already complete.
				if listing.Status() == youtube.StatusBoundary {
					refs = youtube.Uniqueify(append(refs, previous.Refs...))
				}

				err = store.Push(ctx, archive.Snapshot{
					Channel: channel.Uri(),
					Name:    name,
					Kind:    kind.String(),
					TakenAt: time.Now(),
					Status:  listing.Status().String(),
					Refs:    refs,
				})
				if err != nil {
					osutil.Fatal("failed to record snapshot", err)
				}
				slog.Info(
					"recorded snapshot",
					"channel", channel.Uri(),
					"kind", kind,
					"status", listing.Status(),
					"items", len(refs),
				)
			}
			t2 := time.Now()

			slog.Info("sync time", "channel", channel.Uri(), "seconds", t2.Sub(t1).Seconds())
		}
	},
}
