package obsidian

import (
	"regexp"
	"sort"
	"strings"
)

var (
	tagWhitespace = regexp.MustCompile(`\s+`)
	tagHyphens    = regexp.MustCompile(`-+`)
)

// NormalizeTag turns free text into an Obsidian tag: case is kept, a leading
// '#' is dropped, '&' becomes "and", whitespace runs become single hyphens
// and '/' is kept for hierarchy. It returns "" for blank input.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return ""
	}

	tag = strings.ReplaceAll(tag, "&", "and")
	tag = strings.ReplaceAll(tag, "#", "")
	tag = tagWhitespace.ReplaceAllString(tag, "-")
	tag = tagHyphens.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}

// TagSet collects normalized, de-duplicated tags.
type TagSet struct {
	tags map[string]bool
}

// NewTagSet creates a TagSet holding tags.
func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{tags: make(map[string]bool)}
	for _, tag := range tags {
		ts.Add(tag)
	}
	return ts
}

// Add normalizes and adds tag. Blank tags are ignored.
func (ts *TagSet) Add(tag string) {
	if normalized := NormalizeTag(tag); normalized != "" {
		ts.tags[normalized] = true
	}
}

// Remove drops a tag if present.
func (ts *TagSet) Remove(tag string) {
	delete(ts.tags, NormalizeTag(tag))
}

// Sorted returns the tags in sorted order.
func (ts *TagSet) Sorted() []string {
	out := make([]string, 0, len(ts.tags))
	for tag := range ts.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// TagsFromAny extracts strings from a YAML list value ([]string or []any).
func TagsFromAny(val any) []string {
	out := []string{}
	switch list := val.(type) {
	case []string:
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
