package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"webmclip/internal/util/timecode"
)

func (m Model) viewHeader() string {
	media := m.svc.Media()
	title := m.styles.Title.Render("webmclip: " + filepath.Base(media.Path))
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Duration %s • %d tracks", timecode.Format(media.DurationSec), len(media.Tracks)))
	return title + "\n" + sub
}

func (m Model) viewForm() string {
	var b strings.Builder
	var group string
	for i, r := range formRows {
		if t := groupTitles[r.group]; t != group {
			group = t
			b.WriteString(m.styles.Header.Render(group))
			b.WriteString("\n")
		}
		b.WriteString(m.viewRow(i, r))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRow(i int, r row) string {
	cursor := "  "
	if i == m.cursor {
		cursor = m.styles.Cursor.Render("> ")
	}
	label := m.styles.Label.Render(fmt.Sprintf("%-17s", r.label))

	var value string
	if m.editing && i == m.cursor {
		value = m.input.View()
	} else {
		value = m.styles.Value.Render(m.displayValue(r))
	}

	line := cursor + label + " " + value
	if fe, ok := m.result.Validation.Lookup(r.field); ok {
		line += "  " + m.styles.Error.Render(fe.Message)
	}
	return line
}

func (m Model) displayValue(r row) string {
	f := m.result.Fields
	switch r.kind {
	case rowCheck:
		if checkValue(f, r.field) {
			return "[x]"
		}
		return "[ ]"
	case rowSelect:
		values, labels := choices(m.svc.Catalog(), r.field)
		cur := selectValue(f, r.field)
		for i, v := range values {
			if v == cur {
				return "< " + labels[i] + " >"
			}
		}
		return "< none >"
	case rowMark:
		return orDash(markValue(f, r.field))
	case rowRaw:
		return truncate(m.svc.RawArgs(), 60)
	}
	v, _ := f.Text(r.field)
	return orDash(v)
}

func (m Model) viewArgs() string {
	if m.eventErr != nil {
		return m.styles.Error.Render("error: " + m.eventErr.Error())
	}
	if m.result.Valid() {
		return m.styles.Args.Render(wrap(m.svc.RawArgs(), m.argWidth()))
	}
	n := m.result.Validation.Count()
	return m.styles.Warning.Render(fmt.Sprintf("%d invalid field(s), nothing to accept", n))
}

func (m Model) viewHelp() string {
	return m.styles.Faint.Render("↑/↓ move • enter edit/toggle • ←/→ choose • ctrl+s accept • q quit")
}

func (m Model) argWidth() int {
	if m.width > 10 {
		return m.width - 6
	}
	return 76
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// wrap breaks s on spaces so no line exceeds width runes where possible.
func wrap(s string, width int) string {
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(s) {
		n := len([]rune(word))
		if i > 0 {
			if lineLen+1+n > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n-1]) + "…"
}
