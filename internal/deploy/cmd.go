package deploy

import (
	"context"
	"fmt"
	"io"

	"github.com/brand-provenance/deployer/configs"
	"github.com/brand-provenance/deployer/internal/artifacts"
	"github.com/brand-provenance/deployer/internal/chain"
	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/brand-provenance/deployer/internal/output"
	"github.com/brand-provenance/deployer/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the brand verification and product series contracts",
	}

	verificationCmd = &cobra.Command{
		Use:   "verification",
		Short: "Deploy BrandVerificationNFT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd, []deployment.Plan{deployment.VerificationPlan()})
		},
	}

	seriesCmd = &cobra.Command{
		Use:   "series",
		Short: "Deploy ProductSeriesNFT wired to a deployed BrandVerificationNFT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd, []deployment.Plan{deployment.SeriesPlan()})
		},
	}

	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Deploy BrandVerificationNFT, then ProductSeriesNFT wired to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd, deployment.Plans())
		},
	}
)

func init() {
	for _, cmd := range []*cobra.Command{verificationCmd, seriesCmd, allCmd} {
		cmd.PreRunE = bindFlags
	}

	CMD.AddCommand(verificationCmd)
	CMD.AddCommand(seriesCmd)
	CMD.AddCommand(allCmd)
}

func runPlans(cmd *cobra.Command, plans []deployment.Plan) error {
	err := run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), plans)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Deployment failed with error:")
	}
	return err
}

func run(ctx context.Context, stdout, stderr io.Writer, plans []deployment.Plan) error {
	log := logger.Named("deploy_cmd")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	prior, err := priorAddresses(cfg.Deploy, plans)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(viper.GetString("output"))
	if err != nil {
		return err
	}

	store, err := artifacts.Load(cfg.Deploy.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to load contract templates: %w", err)
	}
	if missing := store.Missing(templateNames(plans)); len(missing) > 0 {
		log.With("missing", missing).With("artifacts", cfg.Deploy.Artifacts).Warn("templates are missing from artifacts")
	}

	key, err := wallet.ParsePrivateKey(cfg.Chain.PrivateKey)
	if err != nil {
		return err
	}

	client, err := chain.Dial(ctx, cfg.Chain.RPCURL, key, store, chain.Options{
		ConfirmationTimeout: cfg.Chain.ConfirmationTimeout,
		GasLimit:            cfg.Chain.GasLimit,
		Networks:            chain.NewNetworks(cfg.Chain.Networks),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	log.With("rpc_url", cfg.Chain.RPCURL).With("from", client.From().Hex()).Debug("deployer account loaded")

	// Structured summaries own stdout.
	progress := stdout
	if format.Structured() {
		progress = stderr
	}

	reporter := deployment.NewReporter(progress,
		deployment.WithExplorer(string(cfg.Explorer.Network), cfg.Explorer.BaseURL, cfg.Explorer.Label),
		deployment.WithWaitIndicator(newWaitIndicator(progress)),
	)

	results, err := deployment.NewOrchestrator(client, reporter).RunAll(ctx, plans, prior)
	if err != nil {
		return err
	}

	if format.Structured() {
		return output.NewGenerator(format).Generate(stdout, results)
	}

	return nil
}

// priorAddresses collects the dependency addresses supplied by the operator. A
// series plan preceded by a verification plan in the same run gets the fresh
// address instead.
func priorAddresses(cfg configs.Deploy, plans []deployment.Plan) (deployment.Addresses, error) {
	prior := deployment.Addresses{}

	needsVerification := false
	for i, plan := range plans {
		if plan.TemplateName != deployment.TemplateProductSeriesNFT {
			continue
		}
		if !deploysBefore(plans[:i], deployment.TemplateBrandVerificationNFT) {
			needsVerification = true
		}
	}
	if !needsVerification {
		return prior, nil
	}

	if err := cfg.ValidateVerificationAddress(); err != nil {
		return nil, err
	}
	prior[deployment.TemplateBrandVerificationNFT] = common.HexToAddress(cfg.VerificationAddress)

	return prior, nil
}

func deploysBefore(plans []deployment.Plan, template string) bool {
	return lo.ContainsBy(plans, func(plan deployment.Plan) bool {
		return plan.TemplateName == template
	})
}

func templateNames(plans []deployment.Plan) []string {
	return lo.Map(plans, func(plan deployment.Plan, _ int) string {
		return plan.TemplateName
	})
}

func loadConfig() (configs.Config, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.Config{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	return configs.Values, nil
}
