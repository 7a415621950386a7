package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions is the allow-list of file extensions the scanner
// accepts. Everything else in the documents directory is ignored.
var supportedExtensions = map[string]string{
	".txt":  "text",
	".md":   "markdown",
	".py":   "source",
	".js":   "source",
	".go":   "source",
	".json": "json",
	".csv":  "csv",
}

// ScannedFile represents a supported file found during a directory scan.
type ScannedFile struct {
	RelPath string // Relative path from the documents root, forward slashes
	AbsPath string // Absolute file path
	DocType string // Detected type from the extension allow-list
}

// Scanner enumerates supported files under a documents directory.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the given documents directory.
// The directory is created if it does not exist.
func NewScanner(root string) (*Scanner, error) {
	if root == "" {
		return nil, fmt.Errorf("documents directory is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &Scanner{root: root}, nil
}

// Root returns the documents root directory.
func (s *Scanner) Root() string {
	return s.root
}

// Supported reports whether a path carries a supported extension and the
// detected document type.
func Supported(path string) (string, bool) {
	docType, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return docType, ok
}

// Scan walks the documents directory and returns all supported files.
// Hidden directories (dotfiles) are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		docType, ok := Supported(path)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		files = append(files, ScannedFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
			DocType: docType,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents directory: %w", err)
	}

	return files, nil
}
