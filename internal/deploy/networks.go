package deploy

import (
	"fmt"
	"strconv"

	"github.com/brand-provenance/deployer/configs"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var NetworksCMD = &cobra.Command{
	Use:   "networks",
	Short: "Print the known network table and which network gets explorer links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&configs.Values); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderNetworks(configs.Values.Chain.Networks, configs.Values.Explorer))
		return nil
	},
}

func renderNetworks(networks []configs.Network, explorer configs.Explorer) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Network", "Chain ID", "Explorer"})

	for _, network := range networks {
		link := "-"
		if explorer.Network != "" && network.Name == explorer.Network {
			link = explorer.BaseURL
		}
		t.AppendRow(table.Row{network.Name, strconv.FormatUint(network.ChainID, 10), link})
	}

	return t.Render()
}
