package loc

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// TypeOther tags files whose type cannot be derived from the path.
const TypeOther = "other"

// TypeOf derives a type tag from a file path: the lower-cased extension, or
// the detected language for extension-less well-known names (Makefile,
// Dockerfile, ...).
func TypeOf(filePath string) string {
	base := path.Base(NormalizePath(filePath))

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(base)), ".")
	if ext != "" && ext != strings.ToLower(strings.TrimPrefix(base, ".")) {
		return ext
	}

	lang, _ := enry.GetLanguageByFilename(base)
	if lang != "" {
		return strings.ToLower(lang)
	}

	return TypeOther
}
