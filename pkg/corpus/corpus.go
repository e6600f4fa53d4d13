// Package corpus loads the textbook's markdown sources and derives per-file
// metadata. Files follow the Docusaurus layout: optional YAML frontmatter
// between --- delimiters, chapter files named like chapter-3.md.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// GeneralChapter labels files whose path carries no chapter marker.
const GeneralChapter = "General"

var chapterPattern = regexp.MustCompile(`chapter-(\d+)`)

// Document is one markdown source file with its frontmatter stripped.
type Document struct {
	// Path is the file's location on disk.
	Path string

	// Stem is the base filename without extension, e.g. "chapter-3".
	Stem string

	// Content is the markdown body, frontmatter removed and trimmed.
	Content string

	// Chapter is the human-readable chapter label, e.g. "Chapter 3",
	// or GeneralChapter when the path has no chapter marker.
	Chapter string

	// Section is the chapter file's stem, or the file stem for general docs.
	Section string

	// SourceURL is the site-relative URL the document is published at.
	SourceURL string
}

// Loader reads markdown documents from a docs directory.
type Loader struct {
	root string
	// urlBase prefixes generated source URLs, e.g. "/docs/my-book".
	urlBase string
}

// NewLoader creates a Loader rooted at dir. Source URLs are built as
// <urlBase>/<file stem>.
func NewLoader(dir, urlBase string) *Loader {
	return &Loader{root: dir, urlBase: strings.TrimRight(urlBase, "/")}
}

// Root returns the docs directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Load reads every top-level .md file under the root, in lexical order.
// A missing root directory is an error; an empty one is not. Files that
// cannot be read are skipped and returned as per-file errors so callers
// can report them without losing the rest of the corpus.
func (l *Loader) Load() ([]Document, []error, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading docs directory %s: %w", l.root, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(l.root, entry.Name()))
	}
	sort.Strings(paths)

	var failed []error
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := l.loadFile(path)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failed, nil
}

func (l *Loader) loadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	stem := Stem(path)
	chapter, section := ExtractChapterInfo(path)

	return Document{
		Path:      path,
		Stem:      stem,
		Content:   StripFrontmatter(string(raw)),
		Chapter:   chapter,
		Section:   section,
		SourceURL: l.urlBase + "/" + stem,
	}, nil
}

// Stem returns the base filename without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// StripFrontmatter removes a leading YAML frontmatter block delimited by ---
// markers and trims surrounding whitespace. Content without frontmatter is
// returned trimmed as-is.
func StripFrontmatter(content string) string {
	if strings.HasPrefix(content, "---") {
		parts := strings.SplitN(content, "---", 3)
		if len(parts) >= 3 {
			content = parts[2]
		}
	}
	return strings.TrimSpace(content)
}

// ExtractChapterInfo derives the chapter label and section from a file path.
// Any path element matching chapter-<n> yields "Chapter <n>" with the element's
// stem as section. Paths without a chapter marker fall back to GeneralChapter
// with the file's stem as section.
func ExtractChapterInfo(path string) (chapter, section string) {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		lower := strings.ToLower(part)
		if !strings.Contains(lower, "chapter") {
			continue
		}
		m := chapterPattern.FindStringSubmatch(lower)
		if m != nil {
			return "Chapter " + m[1], Stem(part)
		}
	}

	return GeneralChapter, Stem(path)
}
