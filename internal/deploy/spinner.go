package deploy

import (
	"io"
	"os"
	"time"

	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

type spinnerIndicator struct {
	spinner *spinner.Spinner
}

// newWaitIndicator returns a spinner for terminals and nil otherwise, so piped
// output stays line-oriented.
func newWaitIndicator(w io.Writer) deployment.WaitIndicator {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " waiting for block inclusion"

	return &spinnerIndicator{spinner: s}
}

func (i *spinnerIndicator) Start() {
	i.spinner.Start()
}

func (i *spinnerIndicator) Stop() {
	i.spinner.Stop()
}
