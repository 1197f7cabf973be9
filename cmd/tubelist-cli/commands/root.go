package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"tubelist/lib/osutil"
	"tubelist/lib/restyutil"
	"tubelist/lib/scrapers/youtube"
	"tubelist/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tubelist-cli",
	Short: "tubelist-cli walks the video and shorts listings of youtube channels and archives them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

var verbose *bool
var dumpHttp *bool
var throttle *time.Duration

func init() {
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level, including dropped listing entries.")
	dumpHttp = rootCmd.PersistentFlags().Bool("dump-http", false, "Dump request/response pairs to .dev/resty/youtube.")
	throttle = rootCmd.PersistentFlags().Duration("throttle", 0, "Minimum delay between successive continuation fetches.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *youtube.Client {
	if *dumpHttp {
		youtube.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/youtube"))
	}
	client, err := youtube.NewClient(youtube.ClientOptions{
		Throttle: *throttle,
	})
	if err != nil {
		osutil.Fatal("failed to initialize youtube client", err)
	}
	return client
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

