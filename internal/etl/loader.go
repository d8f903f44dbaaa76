package etl

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RawDocument is a source file read from the document directory.
type RawDocument struct {
	Source  string
	Content string
}

var loadableExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// LoadDocuments walks root and reads every .txt and .md file. Sources
// are reported relative to root.
func LoadDocuments(root string) ([]RawDocument, error) {
	var docs []RawDocument

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !loadableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		docs = append(docs, RawDocument{
			Source:  rel,
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return docs, nil
}
