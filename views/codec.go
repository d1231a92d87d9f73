package views

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var entityEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EncodeString makes s safe for inclusion in HTML text and quoted
// attribute values. Both quote styles are encoded. s is interpreted as
// UTF-8; a string that is not valid UTF-8 encodes to "".
func EncodeString(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}
	return entityEncoder.Replace(s)
}

// longest named entity, "&CounterClockwiseContourIntegral;"
const maxEntityLen = 33

var entityNameRe = regexp.MustCompile(`^(#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*)$`)

// DecodeString reverses EncodeString, and additionally decodes every named
// and numeric HTML entity. Only complete entities are decoded: "&copy 2024"
// and unknown names such as "&bogus;" are left as they are.
func DecodeString(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 {
			break
		}
		b.WriteString(s[:i])
		s = s[i:]
		if n := entityLen(s); n > 0 {
			b.WriteString(html.UnescapeString(s[:n]))
			s = s[n:]
			continue
		}
		b.WriteByte('&')
		s = s[1:]
	}
	b.WriteString(s)
	return b.String()
}

// entityLen returns the length of the entity at the start of s, or 0 if s
// does not start with a complete, known entity.
func entityLen(s string) int {
	end := strings.IndexByte(s, ';')
	if end < 2 || end > maxEntityLen || !entityNameRe.MatchString(s[1:end]) {
		return 0
	}
	ent := s[:end+1]
	// A known entity decodes to one or two code points. Anything longer
	// is html's prefix matching ("&ampfoo;" as "&" + "foo;").
	if d := html.UnescapeString(ent); d == ent || utf8.RuneCountInString(d) > 2 {
		return 0
	}
	return end + 1
}

// Encode returns a copy of v with every String leaf passed through
// EncodeString. Sequences and Mappings are rebuilt with the same shape;
// every other scalar is returned unchanged.
func Encode(v Value) Value {
	return walk(v, EncodeString)
}

// Decode returns a copy of v with every String leaf passed through
// DecodeString.
//
// Only String leaves are decoded. Numbers, booleans, Null and Opaque
// values pass through unchanged rather than being coerced to text.
func Decode(v Value) Value {
	return walk(v, DecodeString)
}

func walk(v Value, fn func(string) string) Value {
	switch tv := v.(type) {
	case String:
		return String(fn(string(tv)))
	case Sequence:
		if tv == nil {
			return tv
		}
		out := make(Sequence, len(tv))
		for i, e := range tv {
			out[i] = walk(e, fn)
		}
		return out
	case *Mapping:
		if tv == nil {
			return tv
		}
		out := NewMapping(tv.Len())
		tv.Each(func(k string, e Value) {
			out.Set(k, walk(e, fn))
		})
		return out
	}
	return v
}
