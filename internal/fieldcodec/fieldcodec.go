// Package fieldcodec splits and joins the comma-delimited lines used by the
// catalog and user files.
//
// Quoting rules: a double quote toggles quoted mode, a comma inside quotes is
// literal and a doubled quote inside a quoted field yields one quote. Fields
// cannot span lines.
package fieldcodec

import "strings"

const (
	delimiter     = ','
	quote         = '"'
	listSeparator = ";"
)

// Split breaks line into its fields. A line always yields at least one field.
// The line is walked byte by byte since every delimiter is ASCII, so bytes
// that are not valid UTF-8 pass through unchanged.
func Split(line string) []string {
	fields := make([]string, 0, 8)
	cur := make([]byte, 0, len(line))
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				cur = append(cur, quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delimiter && !inQuotes:
			fields = append(fields, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, c)
		}
	}
	return append(fields, string(cur))
}

// JoinIDs joins an id list with semicolons.
func JoinIDs(ids []string) string {
	return strings.Join(ids, listSeparator)
}

// NeedsQuote reports whether a joined field must be wrapped in quotes.
func NeedsQuote(s string) bool {
	return strings.ContainsAny(s, `,;"`)
}

// QuoteIDs joins ids and wraps the result in quotes when NeedsQuote says so.
// Quotes inside a quoted field are doubled so Split can restore them.
func QuoteIDs(ids []string) string {
	joined := JoinIDs(ids)
	if NeedsQuote(joined) {
		return `"` + strings.ReplaceAll(joined, `"`, `""`) + `"`
	}
	return joined
}

// QuoteField quotes a scalar value that contains a delimiter or quote.
func QuoteField(s string) string {
	if strings.ContainsAny(s, `,"`) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// ParseIDList decodes a raw id list field. One layer of surrounding quotes is
// removed, then the rest is handled by SplitIDs.
func ParseIDList(field string) []string {
	f := strings.TrimSpace(field)
	if len(f) >= 2 && strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`) {
		f = f[1 : len(f)-1]
	}
	return SplitIDs(f)
}

// SplitIDs splits an id list that Split has already unquoted. The legacy
// separators ';' and '|' are treated as ',' and blank tokens are dropped.
// Quotes are left alone, so ids containing quotes survive a save and load.
func SplitIDs(list string) []string {
	ids := make([]string, 0)
	f := strings.TrimSpace(list)
	if f == "" {
		return ids
	}
	f = strings.NewReplacer(";", ",", "|", ",").Replace(f)
	for _, token := range strings.Split(f, ",") {
		if t := strings.TrimSpace(token); t != "" {
			ids = append(ids, t)
		}
	}
	return ids
}

// HeaderIndex maps each trimmed, lower-cased column name to its position.
// When a name repeats, the last position wins.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// Field returns the trimmed value at position i, or "" when i is out of range.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// Column returns the trimmed value of the named column and whether the header
// has that column at all.
func Column(fields []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok {
		return "", false
	}
	return Field(fields, i), true
}
