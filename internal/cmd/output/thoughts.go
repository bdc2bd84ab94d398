package output

import (
	"strconv"
	"time"

	"github.com/agentstation/continuity/internal/memory"
	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// titleWidth bounds the title column so tables stay on one line per row.
const titleWidth = 60

// ThoughtsTable shapes thoughts for table output. Wide adds model, file
// and length columns.
func ThoughtsTable(all []thoughts.Thought, wide bool) Data {
	d := Data{
		Headers:         []string{"#", "Time", "Provider", "Title"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
	if wide {
		d.Headers = append(d.Headers, "Model", "File", "Chars")
		d.ColumnAlignment = append(d.ColumnAlignment, AlignLeft, AlignLeft, AlignRight)
	}

	for _, t := range all {
		number := "?"
		if t.Number > 0 {
			number = strconv.Itoa(t.Number)
		}
		row := []string{number, site.DisplayTime(t), dash(t.Provider), t.Title(titleWidth)}
		if wide {
			row = append(row, dash(t.Model), dash(t.File), strconv.Itoa(len([]rune(t.Content))))
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// HistoryTable shapes memory commits for table output.
func HistoryTable(entries []memory.Entry, wide bool) Data {
	d := Data{Headers: []string{"Commit", "When", "Subject"}}
	if wide {
		d.Headers = append(d.Headers, "Author")
	}

	for _, e := range entries {
		row := []string{e.Short(), e.When.UTC().Format(time.RFC3339), e.Subject}
		if wide {
			row = append(row, e.Author)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
