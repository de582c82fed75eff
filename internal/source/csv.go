package source

import (
	"context"
	"encoding/csv"
	"os"
)

// csvSource handles .csv files: raw text plus a header/row-count summary.
type csvSource struct{ base }

func (s *csvSource) ToText(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *csvSource) ToMetadata(ctx context.Context) (map[string]any, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var headers []string
	rowCount := 0
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if headers == nil {
			headers = record
			continue
		}
		rowCount++
	}

	info, statErr := os.Stat(s.path)
	var size int64
	if statErr == nil {
		size = info.Size()
	}

	return map[string]any{
		"headers":     headers,
		"column_count": len(headers),
		"row_count":   rowCount,
		"size_bytes":  size,
	}, nil
}

func (s *csvSource) GenerateTags(ctx context.Context) ([]string, error) {
	return nil, nil
}
