package framing

import (
	"go.yaml.in/yaml/v3"
)

// parseBlockIndexYAML decodes the "%YAML 1.1\n---\n- <offset>\n..." body
// that follows the "#ASDF BLOCK INDEX" line into a list of absolute block
// start offsets. Per spec §4.2 the index is advisory; a decode failure
// yields an empty list rather than a fatal error, since the catalog built
// during scanning remains authoritative.
func parseBlockIndexYAML(body []byte) []int64 {
	var raw []int64
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil
	}
	return raw
}
