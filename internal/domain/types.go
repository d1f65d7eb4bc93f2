package domain

import (
	"strings"
	"time"
)

// Entry represents a single journal record
type Entry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags,omitempty"`
}

// Tag is a short label, unique by name. An ID of 0 means not yet persisted.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagCount is a tag together with the number of entries referencing it
type TagCount struct {
	Tag
	Entries int `json:"entries"`
}

// NewTag returns an unpersisted tag
func NewTag(name string) Tag {
	return Tag{Name: name}
}

// Clone returns a deep copy of the entry. A nil tag list stays nil.
func (e Entry) Clone() Entry {
	if e.Tags != nil {
		tags := make([]Tag, len(e.Tags))
		copy(tags, e.Tags)
		e.Tags = tags
	}
	return e
}

// TagNames returns the names of the entry's tags in order
func (e Entry) TagNames() []string {
	names := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		names[i] = t.Name
	}
	return names
}

// NormalizeTags trims names, drops empty ones and removes duplicates,
// keeping the first occurrence. Comparison is case-sensitive.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ParseTags splits a comma-separated tag string and normalizes the result
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// JoinTags renders tags the way ParseTags reads them
func JoinTags(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ",")
}

// TagsFromNames builds unpersisted tags from names
func TagsFromNames(names []string) []Tag {
	tags := make([]Tag, len(names))
	for i, n := range names {
		tags[i] = NewTag(n)
	}
	return tags
}

// DefaultTitle is the title given to entries created without one
func DefaultTitle(t time.Time) string {
	return t.Format("02-01-2006") + " Entry"
}
