package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts text, yaml and json.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format '%s' (expected: text|yaml|json)", value)
	}
}

// Structured reports whether the format produces a summary on stdout, in which
// case progress output belongs on stderr.
func (f Format) Structured() bool {
	return f == FormatYAML || f == FormatJSON
}

type Generator struct {
	format Format
}

func NewGenerator(format Format) *Generator {
	return &Generator{format: format}
}

// Generate writes the machine-readable summary of successful runs. Text output
// has no summary: the progress lines already carry the addresses.
func (g *Generator) Generate(w io.Writer, results []deployment.Result) error {
	model := NewModel(results)

	switch g.format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(model); err != nil {
			return fmt.Errorf("could not marshal output model. Err: '%w'", err)
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(model); err != nil {
			return fmt.Errorf("could not marshal output model. Err: '%w'", err)
		}
		return nil
	default:
		return fmt.Errorf("format '%s' has no structured summary", g.format)
	}
}

func NewModel(results []deployment.Result) Model {
	successful := lo.Filter(results, func(r deployment.Result, _ int) bool {
		return r.State == deployment.StateReported
	})

	return Model{
		Deployments: lo.Map(successful, func(r deployment.Result, _ int) Deployment {
			return Deployment{
				Plan:        r.Plan,
				Contract:    r.Template,
				Network:     r.Network.String(),
				ChainID:     r.Network.ChainID,
				Address:     r.Address.Hex(),
				TxHash:      r.TxHash.Hex(),
				Args:        lo.Map(r.Args, func(arg any, _ int) string { return formatArg(arg) }),
				ExplorerURL: r.ExplorerURL,
			}
		}),
	}
}

func formatArg(arg any) string {
	if address, ok := arg.(common.Address); ok {
		return address.Hex()
	}
	return fmt.Sprint(arg)
}
