// Package history stores session summaries as markdown documents with YAML front matter,
// laid out as <base>/<category>/<YYYY-MM-DD>/<id>.md
package history

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Entry is one history document
type Entry struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title"`
	Category  string            `yaml:"category"`
	CreatedAt time.Time         `yaml:"created_at"`
	Tags      []string          `yaml:"tags,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
	Content   string            `yaml:"-"`
}

// NewEntry creates an entry with a fresh id
func NewEntry(category, title, content string, createdAt time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		CreatedAt: createdAt,
		Content:   content,
		Metadata:  map[string]string{},
	}
}

// WithTag appends a tag, skipping empty values
func (e Entry) WithTag(tag string) Entry {
	if tag != "" {
		e.Tags = append(e.Tags, tag)
	}
	return e
}

// WithMetadata sets a metadata key
func (e Entry) WithMetadata(key, value string) Entry {
	if e.Metadata == nil {
		e.Metadata = map[string]string{}
	}
	e.Metadata[key] = value
	return e
}

// Markdown renders the entry with front matter, a title heading and the content
func (e Entry) Markdown() ([]byte, error) {
	front, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter; %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", e.Title)
	buf.WriteString(e.Content)
	if len(e.Content) > 0 && e.Content[len(e.Content)-1] != '\n' {
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// ParseMarkdown reads an entry previously produced by Markdown
func ParseMarkdown(data []byte) (Entry, error) {
	const delimiter = "---\n"

	if !bytes.HasPrefix(data, []byte(delimiter)) {
		return Entry{}, fmt.Errorf("failed to parse history entry; missing front matter")
	}

	rest := data[len(delimiter):]
	end := bytes.Index(rest, []byte("\n"+delimiter))
	if end < 0 {
		return Entry{}, fmt.Errorf("failed to parse history entry; unterminated front matter")
	}

	var entry Entry
	if err := yaml.Unmarshal(rest[:end+1], &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse front matter; %w", err)
	}

	body := bytes.TrimLeft(rest[end+1+len(delimiter):], "\n")
	heading := []byte("# " + entry.Title + "\n")
	body = bytes.TrimLeft(bytes.TrimPrefix(body, heading), "\n")
	entry.Content = string(body)

	return entry, nil
}
