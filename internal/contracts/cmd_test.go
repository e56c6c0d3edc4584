package contracts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brand-provenance/deployer/internal/artifacts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesABI = `[{"inputs":[{"internalType":"address","name":"verificationContract","type":"address"}],"stateMutability":"nonpayable","type":"constructor"}]`

func mustTemplate(t *testing.T, name, rawABI string, bytecode []byte) artifacts.Template {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	require.NoError(t, err)
	return artifacts.Template{Name: name, ABI: parsed, RawABI: rawABI, Bytecode: bytecode, Source: "contracts/" + name + ".sol"}
}

func TestConstructorSignature(t *testing.T) {
	series := mustTemplate(t, "ProductSeriesNFT", seriesABI, []byte{0x60, 0x01})
	assert.Equal(t, "constructor(address verificationContract)", constructorSignature(series))

	verification := mustTemplate(t, "BrandVerificationNFT", `[]`, []byte{0x60, 0x01})
	assert.Equal(t, "constructor()", constructorSignature(verification))
}

func TestRenderTemplates(t *testing.T) {
	store := artifacts.NewStore(mustTemplate(t, "ProductSeriesNFT", seriesABI, []byte{0x60, 0x01, 0x60}))

	rendered := renderTemplates(store)

	assert.Contains(t, rendered, "ProductSeriesNFT")
	assert.Contains(t, rendered, "constructor(address verificationContract)")
	assert.Contains(t, rendered, "3 bytes")
	assert.Contains(t, rendered, "contracts/ProductSeriesNFT.sol")
}

func TestCompileOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "artifact.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	got, err := compileOutputDir(filepath.Join(dir, artifacts.CombinedFileName))
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = compileOutputDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	missing := filepath.Join(dir, "build")
	got, err = compileOutputDir(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)

	_, err = compileOutputDir(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a directory")
}
