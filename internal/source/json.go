package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// jsonSource handles .json files: pretty-printed text, the parsed value as
// metadata, and shape-based tags.
type jsonSource struct{ base }

func (s *jsonSource) parse() (any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

func (s *jsonSource) ToText(ctx context.Context) (string, error) {
	v, err := s.parse()
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("re-serialize json: %w", err)
	}
	return string(pretty), nil
}

func (s *jsonSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	v, err := s.parse()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return map[string]any{"parsed": v}, nil
}

func (s *jsonSource) GenerateTags(ctx context.Context) ([]string, error) {
	v, err := s.parse()
	if err != nil || v == nil {
		return []string{"json"}, nil
	}

	tags := []string{"json"}
	obj, ok := v.(map[string]any)
	if !ok {
		if _, isArr := v.([]any); isArr {
			tags = append(tags, "list")
		}
		return tags, nil
	}

	if _, ok := obj["dependencies"]; ok {
		tags = append(tags, "package", "nodejs")
	}
	if _, ok := obj["name"]; ok {
		if _, hasVersion := obj["version"]; hasVersion {
			tags = append(tags, "package")
		}
	}
	if _, ok := obj["scripts"]; ok {
		tags = append(tags, "build")
	}
	for _, key := range []string{"config", "settings", "options"} {
		if _, ok := obj[key]; ok {
			tags = append(tags, "config")
			break
		}
	}
	return tags, nil
}
