package source

import "context"

// genericSource handles every extension without a dedicated handler.
type genericSource struct{ base }

func (s *genericSource) ToText(ctx context.Context) (string, error) { return "", nil }

func (s *genericSource) ToMetadata(ctx context.Context) (map[string]any, error) { return nil, nil }

func (s *genericSource) GenerateTags(ctx context.Context) ([]string, error) { return nil, nil }
