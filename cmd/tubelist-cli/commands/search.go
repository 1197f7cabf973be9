package commands

import (
	"fmt"

	"tubelist/lib/archive"
	"tubelist/lib/osutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchDb *string

func init() {
	searchDb = searchCmd.Flags().String("db", "", "The database to search, overrides the config.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query> [--db <path/to/archive.db>]",
	Short: "Fuzzy-searches archived channels by name.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := openArchive(*searchDb)
		defer database.Close()
		store := archive.NewStore(database)

		results, err := store.Search(cmd.Context(), args[0])
		if err != nil {
			osutil.Fatal("failed to search the archive", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Channel", "Name", "Score"})
		for _, result := range results {
			t.AppendRow(table.Row{result.Uri, result.Name, fmt.Sprintf("%.2f", result.Score)})
		}
		t.Render()
	},
}
