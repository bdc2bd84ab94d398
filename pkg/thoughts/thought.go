// Package thoughts persists the output of every think cycle as one JSON file
// per thought. The directory of files is the long-term memory that is fed
// back into the next prompt and committed to git.
package thoughts

import (
	"strings"
	"time"

	"github.com/agentstation/utc"
)

// TimestampLayout is the layout thoughts are stamped with. It is ISO-8601 and
// compatible with timestamps written by earlier versions of the archive.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FileLayout names thought files after their UTC creation time.
const FileLayout = "20060102_150405"

// Thought is a single persisted inference result.
type Thought struct {
	Content   string `json:"content" yaml:"content"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Number    int    `json:"thought_number" yaml:"thought_number"`
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`

	// File is the base name the thought was loaded from or saved to.
	File string `json:"-" yaml:"-"`
}

// Meta describes where a thought came from.
type Meta struct {
	Provider string
	Model    string
}

// Time parses the thought's timestamp. The second result is false when the
// timestamp is missing or not ISO-8601.
func (t Thought) Time() (utc.Time, bool) {
	if t.Timestamp == "" {
		return utc.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339Nano, t.Timestamp)
	if err != nil {
		// Naive timestamps without an offset are treated as UTC.
		parsed, err = time.Parse("2006-01-02T15:04:05.999999999", t.Timestamp)
		if err != nil {
			return utc.Time{}, false
		}
	}
	return utc.Time{Time: parsed.UTC()}, true
}

// Title returns the first non-empty line of the thought, truncated to max runes.
func (t Thought) Title(max int) string {
	for _, line := range strings.Split(t.Content, "\n") {
		line = unwrapEmphasis(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#>")))
		if line == "" {
			continue
		}
		runes := []rune(line)
		if max > 0 && len(runes) > max {
			return strings.TrimSpace(string(runes[:max])) + "…"
		}
		return line
	}
	return ""
}

// unwrapEmphasis removes markdown emphasis that wraps the whole line.
func unwrapEmphasis(line string) string {
	for _, marker := range []string{"***", "**", "__", "*", "_"} {
		if len(line) > 2*len(marker) && strings.HasPrefix(line, marker) && strings.HasSuffix(line, marker) {
			return strings.TrimSpace(line[len(marker) : len(line)-len(marker)])
		}
	}
	return line
}

// Recent returns the last n thoughts in their original order.
// A non-positive n returns all of them.
func Recent(all []Thought, n int) []Thought {
	if n <= 0 || len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
