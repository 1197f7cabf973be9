package commands

import (
	"context"
	"strings"

	"tubelist/lib/osutil"
	"tubelist/lib/scrapers/youtube"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var infoAbout *bool

func init() {
	infoAbout = infoCmd.Flags().Bool("about", false, "Include the about page: join date, views, subscribers, links.")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <channel url> [--about]",
	Short: "Prints a channel's metadata.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client := newClient()
		channel, err := youtube.NewChannel(client, args[0])
		if err != nil {
			osutil.Fatal("failed to parse channel url", err)
		}

		t := newTable()
		t.AppendRow(table.Row{"Url", channel.Url()})

		accessors := []struct {
			label string
			fetch func(context.Context) (string, error)
		}{
			{"Name", channel.Name},
			{"Id", channel.Id},
			{"Vanity url", channel.VanityUrl},
			{"Description", channel.Description},
			{"Avatar", channel.AvatarUrl},
		}
		for _, a := range accessors {
			value, err := a.fetch(ctx)
			if err != nil {
				osutil.Fatal("failed to fetch channel metadata", err)
			}
			t.AppendRow(table.Row{a.label, value})
		}

		keywords, err := channel.Keywords(ctx)
		if err != nil {
			osutil.Fatal("failed to fetch channel metadata", err)
		}
		t.AppendRow(table.Row{"Keywords", strings.Join(keywords, ", ")})

		urls, err := channel.DescriptionUrls(ctx)
		if err != nil {
			osutil.Fatal("failed to fetch channel metadata", err)
		}
		t.AppendRow(table.Row{"Description urls", strings.Join(urls, "\n")})

		mails, err := channel.DescriptionMails(ctx)
		if err != nil {
			osutil.Fatal("failed to fetch channel metadata", err)
		}
		t.AppendRow(table.Row{"Description mails", strings.Join(mails, "\n")})

		if *infoAbout {
			about, err := channel.About(ctx)
			if err != nil {
				osutil.Fatal("failed to fetch about page", err)
			}
			if !about.JoinedDate.IsZero() {
				t.AppendRow(table.Row{"Joined", about.JoinedDate.Format("Jan 2, 2006")})
			}
			t.AppendRow(table.Row{"Views", about.Views})
			t.AppendRow(table.Row{"Country", about.Country})
			t.AppendRow(table.Row{"Subscribers", about.Subscribers})
			t.AppendRow(table.Row{"Verified", about.Verified})
			if len(about.Banner) > 0 {
				t.AppendRow(table.Row{"Banner", about.Banner[len(about.Banner)-1].Url})
			}
			for _, link := range about.SocialLinks {
				t.AppendRow(table.Row{"Link: " + link.Title, link.Url})
			}
		}

		t.Render()
	},
}
