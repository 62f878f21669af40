package pdfform

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Low-level scanning of a PDF's indirect objects. Only the subset of the
// object model that AcroForm field dictionaries use is understood: dictionary
// entries holding strings, names, numbers, references, arrays and nested
// dictionaries. Stream payloads are never parsed; field dictionaries carry
// none.

var (
	objHeaderRE = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)
	rootRefRE   = regexp.MustCompile(`/Root\s+(\d+)\s+(\d+)\s+R`)
	startXrefRE = regexp.MustCompile(`startxref\s+(\d+)`)
)

type rawObject struct {
	num  int
	gen  int
	body string
}

type document struct {
	objects   []rawObject
	byNum     map[int]int // object number -> index into objects
	prevXref  int64
	rootNum   int
	rootGen   int
	maxObjNum int
}

func parseDocument(data []byte) (*document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrMalformed)
	}

	doc := &document{byNum: make(map[int]int)}

	sx := startXrefRE.FindAllSubmatch(data, -1)
	if len(sx) == 0 {
		return nil, fmt.Errorf("%w: missing startxref", ErrMalformed)
	}
	prev, err := strconv.ParseInt(string(sx[len(sx)-1][1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad startxref offset", ErrMalformed)
	}
	doc.prevXref = prev

	root := rootRefRE.FindAllSubmatch(data, -1)
	if len(root) == 0 {
		return nil, fmt.Errorf("%w: missing /Root reference", ErrMalformed)
	}
	doc.rootNum, _ = strconv.Atoi(string(root[len(root)-1][1]))
	doc.rootGen, _ = strconv.Atoi(string(root[len(root)-1][2]))

	for pos := 0; pos < len(data); {
		loc := objHeaderRE.FindSubmatchIndex(data[pos:])
		if loc == nil {
			break
		}
		headStart := pos + loc[0]
		bodyStart := pos + loc[1]

		end := bytes.Index(data[bodyStart:], []byte("endobj"))
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated object at offset %d", ErrMalformed, headStart)
		}
		body := data[bodyStart : bodyStart+end]

		// Field dictionaries never carry streams; cut at the stream keyword
		// so binary payloads are not mistaken for dictionary entries.
		if idx := bytes.Index(body, []byte("stream")); idx >= 0 {
			body = body[:idx]
		}

		num, _ := strconv.Atoi(string(data[pos+loc[2] : pos+loc[3]]))
		gen, _ := strconv.Atoi(string(data[pos+loc[4] : pos+loc[5]]))

		doc.byNum[num] = len(doc.objects)
		doc.objects = append(doc.objects, rawObject{num: num, gen: gen, body: string(body)})
		if num > doc.maxObjNum {
			doc.maxObjNum = num
		}

		pos = bodyStart + end + len("endobj")
	}

	if len(doc.objects) == 0 {
		return nil, fmt.Errorf("%w: no indirect objects", ErrMalformed)
	}
	return doc, nil
}

// isDelimiter reports whether b terminates a PDF name token.
func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// findKey locates a dictionary key as a whole name token and returns the
// index just past it, or -1.
func findKey(body, key string) int {
	for from := 0; ; {
		i := strings.Index(body[from:], key)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(key)
		if end >= len(body) || isDelimiter(body[end]) {
			return end
		}
		from = end
	}
}

func skipWhitespace(body string, i int) int {
	for i < len(body) {
		switch body[i] {
		case ' ', '\t', '\r', '\n', '\f', 0:
			i++
		default:
			return i
		}
	}
	return i
}

// valueEnd returns the index just past the value token starting at i.
// References ("1 0 R") are consumed as a single value.
func valueEnd(body string, i int) (int, error) {
	i = skipWhitespace(body, i)
	if i >= len(body) {
		return 0, fmt.Errorf("%w: truncated dictionary value", ErrMalformed)
	}
	switch body[i] {
	case '(':
		depth := 0
		for j := i; j < len(body); j++ {
			switch body[j] {
			case '\\':
				j++
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return j + 1, nil
				}
			}
		}
		return 0, fmt.Errorf("%w: unterminated string", ErrMalformed)
	case '<':
		if i+1 < len(body) && body[i+1] == '<' {
			depth := 0
			for j := i; j < len(body)-1; j++ {
				if body[j] == '<' && body[j+1] == '<' {
					depth++
					j++
				} else if body[j] == '>' && body[j+1] == '>' {
					depth--
					j++
					if depth == 0 {
						return j + 1, nil
					}
				}
			}
			return 0, fmt.Errorf("%w: unterminated dictionary", ErrMalformed)
		}
		j := strings.IndexByte(body[i:], '>')
		if j < 0 {
			return 0, fmt.Errorf("%w: unterminated hex string", ErrMalformed)
		}
		return i + j + 1, nil
	case '[':
		depth := 0
		for j := i; j < len(body); j++ {
			switch body[j] {
			case '\\':
				j++
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return j + 1, nil
				}
			}
		}
		return 0, fmt.Errorf("%w: unterminated array", ErrMalformed)
	case '/':
		j := i + 1
		for j < len(body) && !isDelimiter(body[j]) {
			j++
		}
		return j, nil
	default:
		j := i
		for j < len(body) && !isDelimiter(body[j]) {
			j++
		}
		// A bare number may be the start of an indirect reference "n g R".
		k := skipWhitespace(body, j)
		numEnd := k
		for numEnd < len(body) && !isDelimiter(body[numEnd]) {
			numEnd++
		}
		if numEnd > k && isInteger(body[k:numEnd]) {
			l := skipWhitespace(body, numEnd)
			if l < len(body) && body[l] == 'R' && (l+1 >= len(body) || isDelimiter(body[l+1])) {
				return l + 1, nil
			}
		}
		return j, nil
	}
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// dictValue extracts the raw token text of a key's value, or "" if absent.
func dictValue(body, key string) (string, bool) {
	i := findKey(body, key)
	if i < 0 {
		return "", false
	}
	start := skipWhitespace(body, i)
	end, err := valueEnd(body, i)
	if err != nil || end <= start {
		return "", false
	}
	return strings.TrimSpace(body[start:end]), true
}

// setDictEntry replaces the value of key, or inserts the pair before the
// dictionary's closing marker when the key is absent.
func setDictEntry(body, key, token string) (string, error) {
	if i := findKey(body, key); i >= 0 {
		end, err := valueEnd(body, i)
		if err != nil {
			return "", err
		}
		return body[:i] + " " + token + body[end:], nil
	}
	close := strings.LastIndex(body, ">>")
	if close < 0 {
		return "", fmt.Errorf("%w: object is not a dictionary", ErrMalformed)
	}
	return body[:close] + key + " " + token + " " + body[close:], nil
}

// decodeStringToken turns a PDF string token (literal or hex form) into text.
// UTF-16BE hex strings carrying the FEFF byte-order mark are decoded; other
// payloads are taken as single-byte text.
func decodeStringToken(tok string) string {
	if len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')' {
		return unescapeLiteral(tok[1 : len(tok)-1])
	}
	if len(tok) >= 2 && tok[0] == '<' && tok[len(tok)-1] == '>' {
		raw := strings.Map(dropPDFSpace, tok[1:len(tok)-1])
		if len(raw)%2 == 1 {
			raw += "0"
		}
		b, err := hex.DecodeString(raw)
		if err != nil {
			return tok
		}
		if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
			return decodeUTF16BE(b[2:])
		}
		return string(b)
	}
	if len(tok) >= 1 && tok[0] == '/' {
		return tok[1:]
	}
	return tok
}

func dropPDFSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return -1
	}
	return r
}

func decodeUTF16BE(b []byte) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(u))
}

func unescapeLiteral(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '(', ')', '\\':
			out.WriteByte(s[i])
		default:
			if s[i] >= '0' && s[i] <= '7' {
				oct := string(s[i])
				for len(oct) < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7' {
					i++
					oct += string(s[i])
				}
				if v, err := strconv.ParseInt(oct, 8, 16); err == nil {
					out.WriteByte(byte(v))
				}
			} else {
				out.WriteByte(s[i])
			}
		}
	}
	return out.String()
}
