package manifest

import "fmt"

func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest name is required")
	}
	if len(m.Tools) == 0 {
		return fmt.Errorf("manifest must list at least one tool")
	}

	for i, tool := range m.Tools {
		if tool.Command == "" {
			return fmt.Errorf("tool %d is missing a command", i+1)
		}
		if tool.MaxDepth < 0 {
			return fmt.Errorf("tool %s: max_depth must not be negative", tool.Command)
		}
		if tool.Timeout < 0 {
			return fmt.Errorf("tool %s: timeout must not be negative", tool.Command)
		}
	}
	return nil
}
