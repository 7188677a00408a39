package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/wiless/empirical"
	"github.com/wiless/empirical/sweep"
)

// TableReporter prints one row per series with loss statistics and the
// received power at the last sample.
type TableReporter struct {
	Writer     io.Writer
	TxPowerDbm float64
}

func (r TableReporter) Report(series []sweep.Series) error {
	w := r.Writer
	if w == nil {
		w = os.Stdout
	}
	tbl := table.New("MODEL", "SAMPLES", "MIN (dB)", "MEAN (dB)", "MAX (dB)", "LAST DIST (m)", "LAST LOSS (dB)", "RX (dBm)")
	tbl.WithHeaderFormatter(color.New(color.BgHiBlue, color.FgHiWhite).SprintfFunc())
	tbl.WithWriter(w)
	for _, s := range series {
		sum := Summarize(s)
		tbl.AddRow(
			sum.Name,
			sum.Samples,
			fmt.Sprintf("%.2f", sum.MinDb),
			fmt.Sprintf("%.2f", sum.MeanDb),
			fmt.Sprintf("%.2f", sum.MaxDb),
			fmt.Sprintf("%.1f", sum.LastDistanceM),
			fmt.Sprintf("%.2f", sum.LastLossDb),
			fmt.Sprintf("%.2f", empirical.RxPowerDbm(r.TxPowerDbm, sum.LastLossDb)),
		)
	}
	tbl.Print()
	return nil
}
