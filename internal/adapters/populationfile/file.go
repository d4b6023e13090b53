// Package populationfile loads farm records from YAML or JSON files and
// generates synthetic topologies.
package populationfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/epiherd/internal/domain/population"
)

// farmDoc is the on-disk shape of a farm.
type farmDoc struct {
	ID       uint32   `yaml:"id"        json:"id"`
	Species  string   `yaml:"species"   json:"species"`
	HerdSize int      `yaml:"herd_size" json:"herd_size"`
	Adjacent []uint32 `yaml:"adjacent"  json:"adjacent"`
}

type populationDoc struct {
	Farms []farmDoc `yaml:"farms" json:"farms"`
}

// File reads farm records from a .yaml, .yml or .json file.
//
//	farms:
//	  - id: 1
//	    species: cattle
//	    herd_size: 100
//	    adjacent: [2, 3]
type File struct {
	Path string
}

// NewFile returns a loader for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load implements population.Loader. Records keep the file order.
func (f *File) Load() ([]population.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read population file: %w", err)
	}
	return Decode(filepath.Ext(f.Path), data)
}

// Decode parses data in the format named by ext (".yaml", ".yml" or ".json").
func Decode(ext string, data []byte) ([]population.Record, error) {
	var doc populationDoc
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	records := make([]population.Record, len(doc.Farms))
	for i, fd := range doc.Farms {
		species, err := population.ParseSpecies(fd.Species)
		if err != nil {
			return nil, fmt.Errorf("farm %d: %w", fd.ID, err)
		}
		adjacent := make([]population.FarmID, len(fd.Adjacent))
		for j, id := range fd.Adjacent {
			adjacent[j] = population.FarmID(id)
		}
		records[i] = population.Record{
			ID:            population.FarmID(fd.ID),
			Species:       species,
			HerdSize:      fd.HerdSize,
			AdjacentFarms: adjacent,
		}
	}
	return records, nil
}

// Encode writes records as YAML in the format read by File.
func Encode(records []population.Record) ([]byte, error) {
	doc := populationDoc{Farms: make([]farmDoc, len(records))}
	for i, r := range records {
		adjacent := make([]uint32, len(r.AdjacentFarms))
		for j, id := range r.AdjacentFarms {
			adjacent[j] = uint32(id)
		}
		doc.Farms[i] = farmDoc{
			ID:       uint32(r.ID),
			Species:  r.Species.String(),
			HerdSize: r.HerdSize,
			Adjacent: adjacent,
		}
	}
	return yaml.Marshal(doc)
}
