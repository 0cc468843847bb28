package x12

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type payerDirectory struct {
	Payers []Payer `yaml:"payers"`
}

// LoadPayerDirectory reads a YAML payer directory:
//
//	payers:
//	  - id: BCBS
//	    name: Blue Cross Blue Shield
//	    identifiers: [BCBS, "00060"]
//	    requirements: ["Group number in REF*1L"]
func LoadPayerDirectory(r io.Reader) ([]Payer, error) {
	var dir payerDirectory

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&dir); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode payer directory: empty document")
		}

		return nil, fmt.Errorf("decode payer directory: %w", err)
	}

	seen := make(map[string]bool, len(dir.Payers))

	for i, p := range dir.Payers {
		if p.ID == "" {
			return nil, fmt.Errorf("payer %d: missing id", i+1)
		}

		if seen[p.ID] {
			return nil, fmt.Errorf("payer %s: duplicate id", p.ID)
		}

		seen[p.ID] = true
	}

	return dir.Payers, nil
}

// LoadTables returns the built-in tables, with the payer directory replaced by the
// YAML file at path when path is not empty.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Tables{}, fmt.Errorf("open payer directory: %w", err)
	}
	defer f.Close()

	payers, err := LoadPayerDirectory(f)
	if err != nil {
		return Tables{}, err
	}

	return tables.WithPayers(payers), nil
}
