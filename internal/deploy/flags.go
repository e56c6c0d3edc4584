package deploy

import (
	"fmt"
	"time"

	"github.com/brand-provenance/deployer/configs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagDef defines a command-line flag with its configuration.
type (
	flagType interface {
		string | int | bool | time.Duration
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var (
	defaults = configs.MustDefaultConfig()

	// flagKeys maps declared flag names to their viper keys.
	flagKeys = map[string]string{}

	stringFlags = []flagDef[string]{
		// Chain connection
		{"rpc-url", "chain.rpc-url", defaults.Chain.RPCURL, "JSON-RPC endpoint of the target chain"},
		{"private-key", "chain.private-key", "", "Deployer private key (prefer DEPLOYER_CHAIN_PRIVATE_KEY in .env)"},

		// Templates and dependencies
		{"artifacts", "deploy.artifacts", defaults.Deploy.Artifacts, "Hardhat artifacts directory or contracts.json"},
		{"verification-address", "deploy.verification-address", "", "Deployed BrandVerificationNFT address passed to ProductSeriesNFT"},

		// Explorer
		{"explorer-network", "explorer.network", string(defaults.Explorer.Network), "Network name that gets an explorer link"},
		{"explorer-base-url", "explorer.base-url", defaults.Explorer.BaseURL, "Explorer base URL"},
	}

	intFlags = []flagDef[int]{
		{"gas-limit", "chain.gas-limit", int(defaults.Chain.GasLimit), "Gas limit for creation transactions (0 estimates)"},
	}

	durationFlags = []flagDef[time.Duration]{
		{"confirmation-timeout", "chain.confirmation-timeout", defaults.Chain.ConfirmationTimeout, "Maximum wait for a deployment to be mined"},
	}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(durationFlags); err != nil {
		panic(err)
	}
}

// declareFlags declares multiple flags and records their viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single persistent flag on CMD. Binding happens in bindFlags.
func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	flags := CMD.PersistentFlags()
	switch v := any(defaultValue).(type) {
	case string:
		flags.String(flagName, v, description)
	case int:
		flags.Int(flagName, v, description)
	case bool:
		flags.Bool(flagName, v, description)
	case time.Duration:
		flags.Duration(flagName, v, description)
	}
	flagKeys[flagName] = viperKey
	return nil
}

// bindFlags binds the running command's flags to their viper keys. It runs as
// PreRunE because other commands bind some of the same keys and viper keeps only
// the latest binding per key.
func bindFlags(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
