package document

import "strings"

// boldMarker fences a run of text that renders bold in markup.
const boldMarker = "**"

// TextRun is one segment of an inline-formatted string.
type TextRun struct {
	Text string
	Bold bool
}

// SplitBoldRuns splits a string carrying the **bold** convention into ordered
// runs. Odd-numbered segments between marker pairs are bold; everything else
// is plain. Empty segments are dropped, so a wholly wrapped string yields a
// single bold run with no plain siblings. An unpaired trailing marker is
// treated as literal text of the final plain segment.
func SplitBoldRuns(s string) []TextRun {
	if !strings.Contains(s, boldMarker) {
		if s == "" {
			return nil
		}
		return []TextRun{{Text: s}}
	}

	parts := strings.Split(s, boldMarker)
	if len(parts)%2 == 0 {
		// Odd marker count: reattach the dangling marker to the last segment.
		parts[len(parts)-2] += boldMarker + parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	runs := make([]TextRun, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runs = append(runs, TextRun{Text: part, Bold: i%2 == 1})
	}
	return runs
}

// JoinBoldRuns reassembles runs into a single string, fencing each bold run
// in its own marker pair. Adjacent bold runs keep separate pairs and are
// never merged.
func JoinBoldRuns(runs []TextRun) string {
	var sb strings.Builder
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		if run.Bold {
			sb.WriteString(boldMarker)
			sb.WriteString(run.Text)
			sb.WriteString(boldMarker)
		} else {
			sb.WriteString(run.Text)
		}
	}
	return sb.String()
}
