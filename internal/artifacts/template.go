package artifacts

import (
	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Template is a compiled contract: its ABI and creation bytecode.
type Template struct {
	Name     string
	ABI      abi.ABI
	RawABI   string
	Bytecode []byte
	// Source is the file the template was loaded from.
	Source string
}

// Known lists the templates the deployer ships plans for.
var Known = []string{
	deployment.TemplateBrandVerificationNFT,
	deployment.TemplateProductSeriesNFT,
}
