package report

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/wiless/empirical/sweep"
	"github.com/wiless/vlib"
)

const (
	XLabel = "Distance (m)"
	YLabel = "Propagation Loss (dB)"
)

// MatlabReporter writes an Octave/Matlab script that plots every series as
// loss against distance.
type MatlabReporter struct {
	// FileName is passed to vlib.NewMatlab.
	FileName string
}

func (r MatlabReporter) Report(series []sweep.Series) error {
	if r.FileName == "" {
		return errors.New("report: empty matlab file name")
	}
	// vlib only logs a failed create.
	script := strings.TrimSuffix(r.FileName, ".m") + ".m"
	if err := removeStale(script); err != nil {
		return err
	}
	matlab := vlib.NewMatlab(r.FileName)
	matlab.Silent = true
	matlab.Json = false

	matlab.Command("figure;")
	legends := make([]string, 0, len(series))
	for _, s := range series {
		v := VariableName(s.Name)
		matlab.Export("dist_"+v, s.X)
		matlab.Export("loss_"+v, s.Y)
		matlab.Command(fmt.Sprintf("plot(dist_%s,loss_%s,'-o');hold all", v, v))
		legends = append(legends, "'"+strings.ReplaceAll(s.Name, "'", "''")+"'")
	}
	matlab.Command(fmt.Sprintf("xlabel('%s');", XLabel))
	matlab.Command(fmt.Sprintf("ylabel('%s');", YLabel))
	if len(legends) > 0 {
		matlab.Command(fmt.Sprintf("legend(%s);", strings.Join(legends, ",")))
	}
	matlab.Command("grid on;")
	if err := matlab.Close(); err != nil {
		return errors.Wrapf(err, "report: closing %s", matlab.Name())
	}
	if _, err := os.Stat(matlab.Name()); err != nil {
		return errors.Wrap(err, "report: matlab script not written")
	}
	return nil
}

func removeStale(fname string) error {
	if err := os.Remove(fname); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "report: removing stale %s", fname)
	}
	return nil
}

// VariableName maps a series name to a valid Matlab identifier.
func VariableName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	v := b.String()
	if v == "" || !unicode.IsLetter(rune(v[0])) {
		v = "s" + v
	}
	return v
}
