package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/brand-provenance/deployer/internal/infra/filesystem"
	fsjson "github.com/brand-provenance/deployer/internal/infra/filesystem/json"
	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

type (
	// runFunc executes a tool in dir and returns its stdout.
	runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// Compiler turns Solidity sources into a contracts.json with ABIs and bytecodes
	// using forge.
	Compiler struct {
		contractsRootDir string
		outputDir        string
		writer           filesystem.Writer
		run              runFunc
		logger           *slog.Logger
	}
)

// NewCompiler creates a new contract compiler
func NewCompiler(contractsRootDir, outputDir string) *Compiler {
	return &Compiler{
		contractsRootDir: contractsRootDir,
		outputDir:        outputDir,
		writer:           fsjson.NewWriter(),
		run:              runCommand,
		logger:           logger.Named("contracts_compiler"),
	}
}

// Compile compiles the named contracts and writes contracts.json into the output
// directory. It returns the written path.
func (c *Compiler) Compile(ctx context.Context, contractNames []string) (string, error) {
	c.logger.
		With("contracts_dir", c.contractsRootDir).
		Info("starting contract compilation")

	compiled := make(map[string]combinedEntry, len(contractNames))
	for _, name := range contractNames {
		c.logger.With("name", name).Info("compiling contract")

		abiJSON, bytecodeHex, err := c.compileContractRaw(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to compile %s: %w", name, err)
		}

		compiled[name] = combinedEntry{
			ABI:      json.RawMessage(abiJSON),
			Bytecode: bytecodeHex,
		}
	}

	outputPath := filepath.Join(c.outputDir, CombinedFileName)
	if err := c.writer.WriteJSON(outputPath, compiled); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", CombinedFileName, err)
	}

	c.logger.With("path", outputPath).Info("contracts compiled successfully")

	return outputPath, nil
}

// compileContractRaw returns the raw JSON ABI and 0x-prefixed creation bytecode of a contract.
func (c *Compiler) compileContractRaw(ctx context.Context, contractName string) ([]byte, string, error) {
	abiOutput, err := c.run(ctx, c.contractsRootDir, "forge", "inspect", contractName, "abi", "--json")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ABI for %s: %w", contractName, err)
	}

	if _, err := abi.JSON(strings.NewReader(string(abiOutput))); err != nil {
		return nil, "", fmt.Errorf("failed to parse ABI for %s: %w", contractName, err)
	}

	bytecodeOutput, err := c.run(ctx, c.contractsRootDir, "forge", "inspect", contractName, "bytecode")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bytecode for %s: %w", contractName, err)
	}

	bytecode := strings.TrimSpace(string(bytecodeOutput))
	if strings.TrimPrefix(bytecode, "0x") == "" {
		return nil, "", fmt.Errorf("%s has no creation bytecode", contractName)
	}

	return abiOutput, bytecode, nil
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return out, nil
}
