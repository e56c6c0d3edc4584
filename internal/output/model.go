package output

type (
	Model struct {
		Deployments []Deployment `yaml:"deployments" json:"deployments"`
	}

	Deployment struct {
		Plan        string   `yaml:"plan" json:"plan"`
		Contract    string   `yaml:"contract" json:"contract"`
		Network     string   `yaml:"network" json:"network"`
		ChainID     uint64   `yaml:"chain-id" json:"chainId"`
		Address     string   `yaml:"address" json:"address"`
		TxHash      string   `yaml:"tx-hash" json:"txHash"`
		Args        []string `yaml:"constructor-args,omitempty" json:"constructorArgs,omitempty"`
		ExplorerURL string   `yaml:"explorer-url,omitempty" json:"explorerUrl,omitempty"`
	}
)
