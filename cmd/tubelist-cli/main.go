package main

import (
	"context"
	"tubelist/cmd/tubelist-cli/commands"
	"tubelist/lib/osutil"
	"tubelist/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "tubelist-cli")
	if err != nil {
		osutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
