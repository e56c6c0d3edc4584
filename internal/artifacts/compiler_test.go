package artifacts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForge struct {
	abis      map[string]string
	bytecodes map[string]string
	calls     []string
}

func (f *fakeForge) run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, dir+": "+name+" "+strings.Join(args, " "))
	if name != "forge" || len(args) < 3 || args[0] != "inspect" {
		return nil, errors.New("unexpected command")
	}
	contract, field := args[1], args[2]
	switch field {
	case "abi":
		if abiJSON, ok := f.abis[contract]; ok {
			return []byte(abiJSON), nil
		}
	case "bytecode":
		if bytecode, ok := f.bytecodes[contract]; ok {
			return []byte(bytecode + "\n"), nil
		}
	}
	return nil, errors.New("no such contract")
}

func TestCompilerWritesLoadableContractsJSON(t *testing.T) {
	forge := &fakeForge{
		abis:      map[string]string{"BrandVerificationNFT": verificationABI, "ProductSeriesNFT": seriesABI},
		bytecodes: map[string]string{"BrandVerificationNFT": minimalBytecode, "ProductSeriesNFT": minimalBytecode},
	}
	outputDir := t.TempDir()
	compiler := NewCompiler("/src", outputDir)
	compiler.run = forge.run

	path, err := compiler.Compile(context.Background(), Known)
	require.NoError(t, err)

	assert.Contains(t, forge.calls, "/src: forge inspect ProductSeriesNFT abi --json")
	assert.Contains(t, forge.calls, "/src: forge inspect ProductSeriesNFT bytecode")

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"BrandVerificationNFT", "ProductSeriesNFT"}, store.Names())
}

func TestCompilerErrors(t *testing.T) {
	tests := []struct {
		name    string
		forge   *fakeForge
		wantErr string
	}{
		{
			name:    "unknown contract",
			forge:   &fakeForge{},
			wantErr: "failed to get ABI for BrandVerificationNFT",
		},
		{
			name:    "invalid abi",
			forge:   &fakeForge{abis: map[string]string{"BrandVerificationNFT": "not json"}},
			wantErr: "failed to parse ABI for BrandVerificationNFT",
		},
		{
			name: "abstract contract",
			forge: &fakeForge{
				abis:      map[string]string{"BrandVerificationNFT": verificationABI},
				bytecodes: map[string]string{"BrandVerificationNFT": "0x"},
			},
			wantErr: "BrandVerificationNFT has no creation bytecode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiler := NewCompiler("/src", t.TempDir())
			compiler.run = tt.forge.run

			_, err := compiler.Compile(context.Background(), []string{"BrandVerificationNFT"})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
