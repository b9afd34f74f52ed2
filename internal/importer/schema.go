package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BucketFile is the structure of a bucket configuration file passed to
// `plan buckets --file`. YAML and JSON are both accepted.
type BucketFile struct {
	Buckets []BucketImport `yaml:"buckets" json:"buckets"`
}

// BucketImport is one bucket row. Amount is kept as text so "$1,200.50"
// style values survive until validation.
type BucketImport struct {
	ID       string `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Amount   string `yaml:"amount" json:"amount"`
}

// LoadBucketFile reads and parses a bucket file. Files ending in .json are
// parsed as JSON, anything else as YAML.
func LoadBucketFile(path string) (*BucketFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBucketFile(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

func ParseBucketFile(data []byte, isJSON bool) (*BucketFile, error) {
	var file BucketFile
	if isJSON {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing bucket file: %w", err)
		}
		return &file, nil
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing bucket file: %w", err)
	}
	return &file, nil
}
