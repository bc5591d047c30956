// Package fence repairs one malformed code-fence shape in Markdown: an opening
// fence with no info string whose language tag sits alone on the next line.
//
//	```            ```python
//	python    ->   print("hi")
//	print("hi")    ```
//	```
//
// Everything else, including already well-formed fences and the bodies of
// code blocks, passes through byte for byte.
package fence

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// identRE matches a bare language token such as python, c++, c# or objective-c.
var identRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+#-]*$`)

// isLanguage reports whether name is a language the highlighter knows.
func isLanguage(name string) bool {
	if !identRE.MatchString(name) {
		return false
	}
	return lexers.Get(name) != nil
}

// marker describes an open fence.
type marker struct {
	char byte
	size int
}

// Normalize rewrites every "fence, newline, language, newline" sequence into
// "fence+language, newline". It is idempotent.
func Normalize(text string) string {
	if !strings.Contains(text, "```") && !strings.Contains(text, "~~~") {
		return text
	}

	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	b.Grow(len(text))

	var open *marker
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		body := strings.TrimRight(line, "\r\n")

		if open != nil {
			if closes(body, *open) {
				open = nil
			}
			b.WriteString(line)
			continue
		}

		m, info, ok := parseOpening(body)
		if !ok {
			b.WriteString(line)
			continue
		}
		open = &m

		if info == "" && i+1 < len(lines) && strings.HasSuffix(line, "\n") && strings.HasSuffix(lines[i+1], "\n") {
			lang := strings.TrimSpace(lines[i+1])
			if isLanguage(lang) {
				b.WriteString(strings.TrimRight(body, " \t"))
				b.WriteString(lang)
				b.WriteString(line[len(body):])
				i++
				continue
			}
		}
		b.WriteString(line)
	}

	return b.String()
}

// Safe runs Normalize and falls back to the original text if it panics.
func Safe(text string, logger *slog.Logger) (out string) {
	defer func() {
		if r := recover(); r != nil {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("fence normalization failed, using original text", "error", fmt.Sprint(r))
			out = text
		}
	}()
	return Normalize(text)
}

// parseOpening recognises a CommonMark opening fence: up to three spaces of
// indentation, then at least three backticks or tildes, then an info string.
func parseOpening(line string) (marker, string, bool) {
	indent := leadingSpaces(line)
	if indent > 3 {
		return marker{}, "", false
	}
	rest := line[indent:]
	if len(rest) < 3 || (rest[0] != '`' && rest[0] != '~') {
		return marker{}, "", false
	}
	c := rest[0]
	n := 0
	for n < len(rest) && rest[n] == c {
		n++
	}
	if n < 3 {
		return marker{}, "", false
	}
	info := strings.TrimSpace(rest[n:])
	if c == '`' && strings.Contains(info, "`") {
		return marker{}, "", false
	}
	return marker{char: c, size: n}, info, true
}

// closes reports whether line closes a block opened with m.
func closes(line string, m marker) bool {
	indent := leadingSpaces(line)
	if indent > 3 {
		return false
	}
	rest := line[indent:]
	n := 0
	for n < len(rest) && rest[n] == m.char {
		n++
	}
	if n < m.size {
		return false
	}
	return strings.TrimSpace(rest[n:]) == ""
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}
