package domain

import (
	"bytes"
	"slices"
	"unicode/utf16"
)

// jsonField is a single object member, kept in emission order.
type jsonField struct {
	key   string
	value string
}

// CanonicalJSON serializes a flat string map with its keys sorted.
//
// The layout is the one produced by Python's json.dumps(m, sort_keys=True):
// ", " and ": " separators, everything outside printable ASCII escaped as \uXXXX.
// Existing caches were keyed on exactly these bytes, so the format must not drift.
func CanonicalJSON(m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]jsonField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, jsonField{key: k, value: m[k]})
	}
	return encodeObject(fields)
}

func encodeObject(fields []jsonField) []byte {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(&b, f.key)
		b.WriteString(": ")
		writeString(&b, f.value)
	}
	b.WriteByte('}')
	return b.Bytes()
}

const hexDigits = "0123456789abcdef"

func writeString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeEscape(b, hi)
				writeEscape(b, lo)
			default:
				writeEscape(b, r)
			}
		}
	}
	b.WriteByte('"')
}

func writeEscape(b *bytes.Buffer, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xf])
	b.WriteByte(hexDigits[(r>>8)&0xf])
	b.WriteByte(hexDigits[(r>>4)&0xf])
	b.WriteByte(hexDigits[r&0xf])
}
