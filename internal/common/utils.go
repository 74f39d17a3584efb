package common

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// urlSeparators matches the separators accepted between URLs in a list.
var urlSeparators = regexp.MustCompile(`[\n,]+`)

// ParseURLList splits text on newlines and commas, trims each entry and drops
// empty ones. Input order is preserved.
func ParseURLList(text string) []string {
	parts := urlSeparators.Split(text, -1)
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// ReadURLList reads every URL from r (one or more per line, comma separated).
// Lines starting with '#' are comments.
func ReadURLList(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	var b strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return ParseURLList(b.String()), nil
}
