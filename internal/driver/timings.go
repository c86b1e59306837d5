package driver

import (
	"encoding/json"
	"fmt"

	"localfn/internal/diag"
	"localfn/internal/observ"
	"localfn/internal/source"
)

type timingPayload struct {
	Kind string `json:"kind"`
	observ.Report
}

// appendTimingDiagnostic records report as an ObsTimings info diagnostic;
// its single note is the JSON payload. A full bag still takes the entry.
func appendTimingDiagnostic(bag *diag.Bag, kind string, report observ.Report) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(timingPayload{Kind: kind, Report: report})
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{},
		fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)).
		WithNote(source.Span{}, string(data))
	if !bag.Add(entry) {
		extra := diag.NewBag(1)
		extra.Add(entry)
		bag.Merge(extra)
	}
}
