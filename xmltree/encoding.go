package xmltree

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var declEncoding = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

// UTF8 returns data transcoded to UTF-8. UTF-16 is recognized by its byte
// order mark or by the byte pattern of "<?" in either byte order; any other
// encoding must be named in the XML declaration. When data is transcoded,
// the declaration is rewritten to say encoding="UTF-8". Data that is
// already UTF-8 is returned as is.
func UTF8(data []byte) ([]byte, error) {
	enc, name := sniffEncoding(data)
	if enc == nil {
		label := DeclaredEncoding(data)
		if label == "" || strings.EqualFold(label, "utf-8") {
			return data, nil
		}
		if enc, name = charset.Lookup(label); enc == nil {
			return nil, fmt.Errorf("unsupported XML encoding %q", label)
		}
		switch {
		case name == "utf-8":
			return data, nil
		case strings.HasPrefix(name, "utf-16"):
			// A declaration readable as ASCII cannot be UTF-16.
			return setDeclaredEncoding(data, "UTF-8"), nil
		}
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return setDeclaredEncoding(out, "UTF-8"), nil
}

func sniffEncoding(data []byte) (encoding.Encoding, string) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "utf-16le"
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "utf-16be"
	case bytes.HasPrefix(data, []byte{'<', 0, '?', 0}):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf-16le"
	case bytes.HasPrefix(data, []byte{0, '<', 0, '?'}):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf-16be"
	}
	return nil, ""
}

// DeclaredEncoding returns the encoding named in the XML declaration at
// the start of data, or "" if there is none.
func DeclaredEncoding(data []byte) string {
	decl := declaration(data)
	if decl == nil {
		return ""
	}
	m := declEncoding.FindSubmatch(decl)
	if m == nil {
		return ""
	}
	return string(m[1][1 : len(m[1])-1])
}

// declaration returns the <?xml ...?> prolog that starts data, after an
// optional UTF-8 byte order mark.
func declaration(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return nil
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return nil
	}
	return data[:end+2]
}

func setDeclaredEncoding(data []byte, name string) []byte {
	decl := declaration(data)
	if decl == nil || !declEncoding.Match(decl) {
		return data
	}
	start := bytes.Index(data, decl)
	rewritten := declEncoding.ReplaceAllLiteral(decl, []byte(`encoding="`+name+`"`))

	out := make([]byte, 0, len(data)-len(decl)+len(rewritten))
	out = append(out, data[:start]...)
	out = append(out, rewritten...)
	out = append(out, data[start+len(decl):]...)
	return out
}
