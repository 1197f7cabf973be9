package youtube

import (
	"tubelist/lib/restyutil"
	"tubelist/lib/telemetry"
)

var tracer = telemetry.Tracer("tubelist.lib.scrapers.youtube")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput routes the raw http request/response dumps of
// every client constructed after this call. Must be set before NewClient.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
