package types

import (
	"path/filepath"
	"strings"
)

// ExtensionLookup restricts candidate files to a set of extensions.
type ExtensionLookup map[string]struct{}

func NewExtensionLookup(extensions []string) ExtensionLookup {
	lookup := make(ExtensionLookup)
	for _, ext := range extensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		lookup[strings.ToLower(ext)] = struct{}{}
	}
	return lookup
}

func (l ExtensionLookup) IsValid(path string) bool {
	// empty lookup means all extensions are valid
	if len(l) == 0 {
		return true
	}

	_, valid := l[strings.ToLower(filepath.Ext(path))]
	return valid
}
