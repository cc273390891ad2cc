package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// Template is a markdown body with its YAML frontmatter.
type Template struct {
	Meta map[string]any
	Body string
}

// Subject returns the subject declared in the frontmatter.
func (t *Template) Subject() string {
	for _, k := range []string{"subject", "Subject"} {
		if s, ok := t.Meta[k].(string); ok {
			return s
		}
	}
	return ""
}

// ParseTemplate splits content into frontmatter and body. Content without
// an opening fence is all body.
func ParseTemplate(content []byte) (*Template, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(content, fence) {
		return &Template{Meta: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(content[len(fence):], " \t")
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if !bytes.HasPrefix(rest, []byte("\n")) {
		return nil, fmt.Errorf("%w: opening fence must be on its own line", ErrInvalidFrontmatter)
	}
	rest = rest[1:]

	head, body, ok := cutFence(rest)
	if !ok {
		return nil, fmt.Errorf("%w: closing fence not found", ErrInvalidFrontmatter)
	}

	meta := map[string]any{}
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}
	return &Template{Meta: meta, Body: string(body)}, nil
}

// cutFence finds a line consisting of the fence alone.
func cutFence(b []byte) (head, body []byte, ok bool) {
	for off := 0; off < len(b); {
		line := b[off:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			head = b[:off]
			if end < 0 {
				return head, nil, true
			}
			return head, b[off+end+1:], true
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, nil, false
}
