package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ToJSON serializes a result as pretty-printed JSON.
func ToJSON(result *Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}
	return string(data), nil
}

// WriteJSON writes a result to path. The file is written to a temporary
// name first and renamed into place so readers never see a partial result.
func WriteJSON(path string, result *Result) error {
	data, err := ToJSON(result)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".result-*")
	if err != nil {
		return fmt.Errorf("create temp result file: %w", err)
	}
	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write result file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close result file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename result file: %w", err)
	}
	return nil
}
