package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads one or more manifests from a YAML file. Files may contain
// multiple documents separated by `---`; empty documents are ignored.
func Load(path string) ([]Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var manifests []Manifest
	for {
		var m Manifest
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if m.Name == "" && len(m.Tools) == 0 {
			continue
		}
		manifests = append(manifests, m)
	}

	if len(manifests) == 0 {
		return nil, fmt.Errorf("no manifests found in %s", path)
	}
	return manifests, nil
}
