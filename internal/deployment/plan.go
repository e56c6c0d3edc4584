package deployment

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	TemplateBrandVerificationNFT = "BrandVerificationNFT"
	TemplateProductSeriesNFT     = "ProductSeriesNFT"
)

// Plan parameterizes one orchestrated deployment: which template to deploy and how
// to build its constructor arguments from previously known addresses.
type Plan struct {
	Name         string
	TemplateName string
	BuildArgs    func(prior Addresses) (Arguments, error)
}

// VerificationPlan deploys the verification registry. Its constructor takes no arguments.
func VerificationPlan() Plan {
	return Plan{
		Name:         "verification",
		TemplateName: TemplateBrandVerificationNFT,
		BuildArgs: func(Addresses) (Arguments, error) {
			return Arguments{}, nil
		},
	}
}

// SeriesPlan deploys the series contract wired to the verification contract address
// found in prior under TemplateBrandVerificationNFT.
func SeriesPlan() Plan {
	return Plan{
		Name:         "series",
		TemplateName: TemplateProductSeriesNFT,
		BuildArgs: func(prior Addresses) (Arguments, error) {
			verification, ok := prior[TemplateBrandVerificationNFT]
			if !ok || verification == (common.Address{}) {
				return nil, fmt.Errorf("%s requires the %s address", TemplateProductSeriesNFT, TemplateBrandVerificationNFT)
			}
			return Arguments{verification}, nil
		},
	}
}

// Plans returns the built-in plans in dependency order.
func Plans() []Plan {
	return []Plan{VerificationPlan(), SeriesPlan()}
}
