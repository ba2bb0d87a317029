// Package imagematch matches CSV image references to stored image blobs.
//
// Stored images are renamed at upload time to "{uploadID}_{seq}_{original}"
// so they are unique on disk, but the CSV refers to the image by its
// original name, usually buried under a foreign directory prefix such as
// "messages/images/GroupName/GroupName_123_ts.jpg". Matching therefore
// strips the generated prefix from stored names and compares against the
// final path segment of the CSV value, falling back to substring
// containment when the names do not line up exactly.
package imagematch

import (
	"encoding/base64"
	"path"
	"regexp"
	"strings"
)

// storedPrefix is the generated uniqueness prefix on stored image
// filenames: anything without an underscore, then the sequence number,
// each followed by an underscore.
var storedPrefix = regexp.MustCompile(`^[^_]*_\d+_`)

// OriginalName derives an uploaded image's original filename from its
// stored blob path by taking the base name and stripping the generated
// prefix.
func OriginalName(storedPath string) string {
	return storedPrefix.ReplaceAllString(path.Base(storedPath), "")
}

// TargetName extracts the name a CSV image_path cell actually refers to:
// the final path segment, accepting both slash styles, trimmed.
func TargetName(csvValue string) string {
	s := csvValue
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// DataURL renders an image blob as an inline data URL. The MIME subtype
// comes from the filename extension; unknown extensions fall back to jpeg.
func DataURL(storedPath string, blob []byte) string {
	mime := "jpeg"
	switch {
	case strings.HasSuffix(storedPath, ".png"):
		mime = "png"
	case strings.HasSuffix(storedPath, ".gif"):
		mime = "gif"
	}
	return "data:image/" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob)
}

// Library holds the derived original filenames of one upload's stored
// images, in insertion order. Adding the same derived name twice keeps its
// original position and overwrites the value; within a single upload,
// original filenames are expected to be unique anyway.
type Library struct {
	names  []string
	byName map[string]string
}

func NewLibrary() *Library {
	return &Library{byName: make(map[string]string)}
}

// Add registers a stored image under its derived original filename.
func (l *Library) Add(storedPath, dataURL string) {
	name := OriginalName(storedPath)
	if _, ok := l.byName[name]; !ok {
		l.names = append(l.names, name)
	}
	l.byName[name] = dataURL
}

func (l *Library) Len() int { return len(l.names) }

// Resolve matches a CSV image_path value to a stored image's data URL.
// Exact match on the derived original filename wins; otherwise the first
// library entry (in insertion order) that equals, contains, or is
// contained by the target name is taken. An empty target never matches.
func (l *Library) Resolve(csvValue string) (string, bool) {
	target := TargetName(csvValue)
	if target == "" {
		return "", false
	}
	if url, ok := l.byName[target]; ok {
		return url, true
	}
	for _, name := range l.names {
		if name == target || strings.Contains(name, target) || strings.Contains(target, name) {
			return l.byName[name], true
		}
	}
	return "", false
}
