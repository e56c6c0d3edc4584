package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brand-provenance/deployer/internal/infra/filesystem"
	fsjson "github.com/brand-provenance/deployer/internal/infra/filesystem/json"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// CombinedFileName is the file written by Compiler: a map of contract name to ABI and bytecode.
const CombinedFileName = "contracts.json"

const hardhatArtifactFormatPrefix = "hh-sol-artifact"

type (
	// Store holds compiled templates by contract name.
	Store struct {
		templates map[string]Template
	}

	combinedEntry struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	hardhatArtifact struct {
		Format       string          `json:"_format"`
		ContractName string          `json:"contractName"`
		SourceName   string          `json:"sourceName"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     string          `json:"bytecode"`
	}
)

func NewStore(templates ...Template) *Store {
	s := &Store{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		s.templates[t.Name] = t
	}
	return s
}

// Load reads templates from path. A file is read as a combined contracts.json, a
// directory containing contracts.json likewise, and any other directory is walked
// for Hardhat artifacts.
func Load(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("artifacts path '%s' is not accessible: %w", path, err)
	}

	reader := fsjson.NewReader()
	if !info.IsDir() {
		return LoadCombined(reader, path)
	}

	combined := filepath.Join(path, CombinedFileName)
	if _, err := os.Stat(combined); err == nil {
		return LoadCombined(reader, combined)
	}

	return LoadHardhat(reader, path)
}

// LoadCombined parses a contracts.json file produced by Compiler.
func LoadCombined(reader filesystem.Reader, path string) (*Store, error) {
	var entries map[string]combinedEntry
	if err := reader.ReadJSON(path, &entries); err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts: %w", err)
	}

	store := NewStore()
	for name, entry := range entries {
		template, err := parseTemplate(name, entry.ABI, entry.Bytecode, path)
		if err != nil {
			return nil, err
		}
		if len(template.Bytecode) == 0 {
			continue
		}
		store.templates[name] = template
	}

	return store, nil
}

// LoadHardhat walks a Hardhat artifacts directory. Debug files, build-info and
// artifacts without creation bytecode (interfaces, abstract contracts) are skipped.
func LoadHardhat(reader filesystem.Reader, dir string) (*Store, error) {
	store := NewStore()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		var artifact hardhatArtifact
		if err := reader.ReadJSON(path, &artifact); err != nil {
			return err
		}
		if !strings.HasPrefix(artifact.Format, hardhatArtifactFormatPrefix) || artifact.ContractName == "" {
			return nil
		}

		template, err := parseTemplate(artifact.ContractName, artifact.ABI, artifact.Bytecode, path)
		if err != nil {
			return err
		}
		if len(template.Bytecode) == 0 {
			return nil
		}

		if existing, ok := store.templates[template.Name]; ok {
			return fmt.Errorf("contract %s is defined in both %s and %s", template.Name, existing.Source, template.Source)
		}
		store.templates[template.Name] = template

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load hardhat artifacts from %s: %w", dir, err)
	}

	return store, nil
}

func parseTemplate(name string, rawABI json.RawMessage, bytecode, source string) (Template, error) {
	parsedABI, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return Template{}, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	code, err := decodeBytecode(bytecode)
	if err != nil {
		return Template{}, fmt.Errorf("invalid bytecode for %s in %s: %w", name, source, err)
	}

	return Template{
		Name:     name,
		ABI:      parsedABI,
		RawABI:   string(rawABI),
		Bytecode: code,
		Source:   source,
	}, nil
}

// decodeBytecode accepts hex with or without the 0x prefix. Unlinked library
// placeholders (__$...$__) are rejected rather than decoded partially.
func decodeBytecode(bytecode string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(bytecode), "0x")
	if strings.Contains(trimmed, "__") {
		return nil, errors.New("bytecode has unlinked library references")
	}

	return hexutil.Decode("0x" + trimmed)
}

// Template returns the named template.
func (s *Store) Template(name string) (Template, bool) {
	t, ok := s.templates[name]
	return t, ok
}

// Names returns the loaded template names in sorted order.
func (s *Store) Names() []string {
	names := lo.Keys(s.templates)
	slices.Sort(names)
	return names
}

// Missing returns the names from want that are not in the store.
func (s *Store) Missing(want []string) []string {
	return lo.Filter(want, func(name string, _ int) bool {
		_, ok := s.templates[name]
		return !ok
	})
}
