package deployment

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
)

const (
	DefaultExplorerNetwork = "monadTestnet"
	DefaultExplorerBaseURL = "https://testnet.monadexplorer.com"
	DefaultExplorerLabel   = "Monad Testnet Explorer"
)

// WaitIndicator animates the confirmation wait, typically a terminal spinner.
type WaitIndicator interface {
	Start()
	Stop()
}

// Reporter renders line-oriented progress to the operator output and links the
// deployed address on the configured public explorer.
type Reporter struct {
	out             io.Writer
	explorerNetwork string
	explorerBaseURL string
	explorerLabel   string
	indicator       WaitIndicator
}

type ReporterOption func(*Reporter)

// WithExplorer overrides which network gets an explorer link and where it points.
func WithExplorer(network, baseURL, label string) ReporterOption {
	return func(r *Reporter) {
		r.explorerNetwork = network
		r.explorerBaseURL = strings.TrimRight(baseURL, "/")
		if label != "" {
			r.explorerLabel = label
		}
	}
}

func WithWaitIndicator(indicator WaitIndicator) ReporterOption {
	return func(r *Reporter) {
		r.indicator = indicator
	}
}

func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:             out,
		explorerNetwork: DefaultExplorerNetwork,
		explorerBaseURL: DefaultExplorerBaseURL,
		explorerLabel:   DefaultExplorerLabel,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Reporter) Deploying(template string, network NetworkIdentity) {
	fmt.Fprintf(r.out, "Deploying %s to %s network...\n", template, network)
}

func (r *Reporter) Submitting(string) {
	fmt.Fprintln(r.out, "Initiating deployment transaction...")
}

func (r *Reporter) Waiting(string, common.Hash) {
	fmt.Fprintln(r.out, "Waiting for deployment transaction confirmation...")
	if r.indicator != nil {
		r.indicator.Start()
	}
}

func (r *Reporter) WaitDone() {
	if r.indicator != nil {
		r.indicator.Stop()
	}
}

// ExplorerURL returns the explorer link for address when network is the explorer network.
func (r *Reporter) ExplorerURL(network NetworkIdentity, address common.Address) (string, bool) {
	if r.explorerNetwork == "" || network.Name != r.explorerNetwork {
		return "", false
	}
	return fmt.Sprintf("%s/address/%s", r.explorerBaseURL, address.Hex()), true
}

// Report prints the confirmed address and, on the explorer network, the explorer link.
// It returns the link that was printed, if any.
func (r *Reporter) Report(template string, network NetworkIdentity, address common.Address) string {
	color.New(color.FgGreen).Fprintf(r.out, "%s deployed successfully to: %s\n", template, address.Hex())

	link, ok := r.ExplorerURL(network, address)
	if !ok {
		return ""
	}

	fmt.Fprintf(r.out, "\nView your contract on %s:\n", r.explorerLabel)
	color.New(color.FgCyan).Fprintln(r.out, link)

	return link
}
