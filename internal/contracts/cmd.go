package contracts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brand-provenance/deployer/configs"
	"github.com/brand-provenance/deployer/internal/artifacts"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "contracts",
		Short: "Compile and inspect the contract templates",
	}

	compileCmd = &cobra.Command{
		Use:   "compile",
		Short: "Compile the known contracts with forge into contracts.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			outputDir, err := compileOutputDir(cfg.Artifacts)
			if err != nil {
				return err
			}

			path, err := artifacts.NewCompiler(cfg.ContractsDir, outputDir).Compile(cmd.Context(), artifacts.Known)
			if err != nil {
				return fmt.Errorf("error occurred compiling contracts: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Compiled %s into %s\n", strings.Join(artifacts.Known, ", "), path)
			return nil
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the templates found in the artifacts path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := artifacts.Load(cfg.Artifacts)
			if err != nil {
				return fmt.Errorf("failed to load contract templates: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTemplates(store))
			if missing := store.Missing(artifacts.Known); len(missing) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Missing templates: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
)

// flagKeys maps flag names to the viper keys they override.
var flagKeys = map[string]string{
	"artifacts":     "deploy.artifacts",
	"contracts-dir": "deploy.contracts-dir",
}

func init() {
	CMD.PersistentFlags().String("artifacts", "", "Hardhat artifacts directory or contracts.json")
	compileCmd.Flags().String("contracts-dir", "", "Foundry project root containing the contract sources")

	compileCmd.PreRunE = bindFlags
	listCmd.PreRunE = bindFlags

	CMD.AddCommand(compileCmd)
	CMD.AddCommand(listCmd)
}

// bindFlags binds the running command's flags. Other commands bind the same
// viper keys and viper keeps only the latest binding per key.
func bindFlags(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func loadConfig() (configs.Deploy, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.Deploy{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	if configs.Values.Deploy.Artifacts == "" {
		return configs.Deploy{}, errors.New("deploy.artifacts is required")
	}
	return configs.Values.Deploy, nil
}

// compileOutputDir is the directory contracts.json is written to. An artifacts
// path naming a file points at its parent directory.
func compileOutputDir(artifactsPath string) (string, error) {
	if filepath.Base(artifactsPath) == artifacts.CombinedFileName {
		return filepath.Dir(artifactsPath), nil
	}

	info, err := os.Stat(artifactsPath)
	switch {
	case os.IsNotExist(err):
		return artifactsPath, nil
	case err != nil:
		return "", fmt.Errorf("artifacts path '%s' is not accessible: %w", artifactsPath, err)
	case !info.IsDir():
		return "", fmt.Errorf("artifacts path '%s' must be a directory or %s", artifactsPath, artifacts.CombinedFileName)
	}

	return artifactsPath, nil
}

func renderTemplates(store *artifacts.Store) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Template", "Constructor", "Bytecode", "Source"})

	for _, name := range store.Names() {
		template, _ := store.Template(name)
		t.AppendRow(table.Row{
			name,
			constructorSignature(template),
			fmt.Sprintf("%d bytes", len(template.Bytecode)),
			template.Source,
		})
	}

	return t.Render()
}

func constructorSignature(template artifacts.Template) string {
	inputs := template.ABI.Constructor.Inputs
	params := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if input.Name == "" {
			params = append(params, input.Type.String())
			continue
		}
		params = append(params, input.Type.String()+" "+input.Name)
	}
	return "constructor(" + strings.Join(params, ", ") + ")"
}
