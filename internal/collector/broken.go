package collector

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
)

// collectBroken scans the raw markdown for shortcut-style references the
// parser did not resolve into links, like `[std::option::Option]` with no
// matching definition. CommonMark treats those as plain text; rustdoc treats
// them as symbol references, so they become candidates with the literal
// bracketed text as destination.
//
// Only the shortcut form is recoverable this way: a reference or collapsed
// link with an undefined label (`[display][label]`, `[display][]`) carries a
// display text nothing downstream can pair with a symbol, so those fail the
// run with a diagnostic.
//
// The scan works line by line with running byte offsets, skipping fenced and
// indented code, inline code spans, images, footnotes, task-list markers,
// reference definitions, and anything overlapping a span the parser already
// claimed.
func collectBroken(src []byte, occupied []span, ch *book.Chapter) ([]Candidate, error) {
	var out []Candidate

	inCodeBlock := false
	activeFence := ""

	off := 0
	for _, line := range strings.SplitAfter(string(src), "\n") {
		lineStart := off
		off += len(line)

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		cands, err := scanLine(line, lineStart, occupied, ch)
		if err != nil {
			return nil, err
		}
		out = append(out, cands...)
	}

	return out, nil
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

func scanLine(line string, lineStart int, occupied []span, ch *book.Chapter) ([]Candidate, error) {
	var out []Candidate

	for i := 0; i < len(line); {
		c := line[i]

		if c == '`' {
			// Skip the inline code span, delimiters included.
			run := 1
			for i+run < len(line) && line[i+run] == '`' {
				run++
			}
			marker := strings.Repeat("`", run)
			closeRel := strings.Index(line[i+run:], marker)
			if closeRel == -1 {
				i += run
				continue
			}
			i = i + run + closeRel + run
			continue
		}

		if c != '[' || lineEscaped(line, i) {
			i++
			continue
		}
		if i > 0 && line[i-1] == '!' {
			// Image opener; the bracketed text is alt text, not a reference.
			i++
			continue
		}
		if i+1 < len(line) && line[i+1] == '^' {
			// Footnote reference.
			i++
			continue
		}

		j := lineCloseBracket(line, i+1)
		if j == -1 {
			i++
			continue
		}

		content := line[i+1 : j]
		i2 := j + 1

		if overlapsAny(occupied, lineStart+i, lineStart+j+1) {
			i = i2
			continue
		}
		if k := precedingPair(line, i); k != -1 && !overlapsAny(occupied, lineStart+k, lineStart+i) {
			// This bracket pair is the label of `[display][label]` (or the
			// empty `[]` of a collapsed form) with no definition anywhere.
			return nil, serrors.ValidationError(fmt.Sprintf(
				"reference link %s%s has no definition found in chapter %s (%s)",
				line[k:i], line[i:j+1], ch.Name, ch.Path))
		}
		if strings.TrimSpace(content) == "" || content == "x" || content == "X" {
			// Empty brackets and task-list markers.
			i = i2
			continue
		}
		if i2 < len(line) && (line[i2] == '(' || line[i2] == '[' || line[i2] == ':') {
			// Inline/reference shapes were already handled by the parser, and
			// `[label]: dest` is a reference definition, not a reference.
			i = i2
			continue
		}

		out = append(out, Candidate{
			Style: StyleBrokenShortcut,
			Dest:  content,
			Start: lineStart + i,
			End:   lineStart + j + 1,
		})
		i = i2
	}

	return out, nil
}

// precedingPair reports whether the `[` at i directly follows a closed bracket
// pair on the same line, returning that pair's opening offset or -1. A stray
// `]` with no opener does not count.
func precedingPair(line string, i int) int {
	if i == 0 || line[i-1] != ']' || lineEscaped(line, i-1) {
		return -1
	}
	depth := 0
	for k := i - 2; k >= 0; k-- {
		if lineEscaped(line, k) {
			continue
		}
		switch line[k] {
		case ']':
			depth++
		case '[':
			if depth == 0 {
				return k
			}
			depth--
		}
	}
	return -1
}

// lineCloseBracket finds the unescaped `]` matching an already-consumed `[`,
// honoring nested bracket pairs within the same line.
func lineCloseBracket(line string, from int) int {
	depth := 0
	for i := from; i < len(line); i++ {
		if lineEscaped(line, i) {
			continue
		}
		switch line[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func lineEscaped(line string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}
