package deployment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterExplorerURL(t *testing.T) {
	tests := []struct {
		name     string
		reporter *Reporter
		network  string
		want     string
		wantOK   bool
	}{
		{
			name:     "monad testnet",
			reporter: NewReporter(&bytes.Buffer{}),
			network:  "monadTestnet",
			want:     "https://testnet.monadexplorer.com/address/" + testnetAddress.Hex(),
			wantOK:   true,
		},
		{
			name:     "local network",
			reporter: NewReporter(&bytes.Buffer{}),
			network:  "localNet",
		},
		{
			name:     "case sensitive match",
			reporter: NewReporter(&bytes.Buffer{}),
			network:  "monadtestnet",
		},
		{
			name:     "custom explorer trims trailing slash",
			reporter: NewReporter(&bytes.Buffer{}, WithExplorer("sepolia", "https://sepolia.etherscan.io/", "Etherscan")),
			network:  "sepolia",
			want:     "https://sepolia.etherscan.io/address/" + testnetAddress.Hex(),
			wantOK:   true,
		},
		{
			name:     "explorer disabled",
			reporter: NewReporter(&bytes.Buffer{}, WithExplorer("", "", "")),
			network:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.reporter.ExplorerURL(NetworkIdentity{Name: tt.network}, testnetAddress)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReporterReportUsesCustomLabel(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(&out, WithExplorer("sepolia", "https://sepolia.etherscan.io", "Etherscan"))

	link := reporter.Report(TemplateProductSeriesNFT, NetworkIdentity{Name: "sepolia"}, testnetAddress)

	assert.Equal(t, "https://sepolia.etherscan.io/address/"+testnetAddress.Hex(), link)
	assert.Contains(t, out.String(), "View your contract on Etherscan:\n")
}

func TestNetworkIdentityString(t *testing.T) {
	assert.Equal(t, "localNet", NetworkIdentity{Name: "localNet", ChainID: 31337}.String())
	assert.Equal(t, "chain-5", NetworkIdentity{ChainID: 5}.String())
}
