package report

import (
	"os"

	"github.com/pkg/errors"
	"github.com/wiless/empirical/sweep"
	"github.com/wiless/vlib"
)

// Document is the JSON layout written by JSONReporter.
type Document struct {
	XLabel string
	YLabel string
	Series []sweep.Series
}

type JSONReporter struct {
	FileName string
}

func (r JSONReporter) Report(series []sweep.Series) error {
	if r.FileName == "" {
		return errors.New("report: empty json file name")
	}
	if series == nil {
		series = []sweep.Series{}
	}
	if err := removeStale(r.FileName); err != nil {
		return err
	}
	vlib.SaveStructure(Document{XLabel: XLabel, YLabel: YLabel, Series: series}, r.FileName, true)
	if _, err := os.Stat(r.FileName); err != nil {
		return errors.Wrap(err, "report: json not written")
	}
	return nil
}
