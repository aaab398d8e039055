package circulars

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf16"
)

type tokenKind int

const (
	tokOther tokenKind = iota
	tokString
	tokNumber
	tokArray
	tokName
	tokOperator
)

type token struct {
	kind  tokenKind
	text  string
	num   float64
	elems []token
}

// kerning offsets in TJ arrays beyond this many thousandths of an em are word gaps.
const wordGap = -200

// contentText returns the text shown by a page content stream. String operands
// are read as PDFDocEncoding or UTF-16BE; operators that move to a new line
// start a new output line.
func contentText(content []byte) string {
	var (
		lx       = &lexer{data: content}
		w        = &textWriter{}
		operands []token
	)

	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			w.writeString(lastOf(operands, tokString))
		case "'", "\"":
			w.newline()
			w.writeString(lastOf(operands, tokString))
		case "TJ":
			if arr := lastOf(operands, tokArray); arr != nil {
				for _, e := range arr.elems {
					switch {
					case e.kind == tokString:
						w.writeString(&e)
					case e.kind == tokNumber && e.num < wordGap:
						w.space()
					}
				}
			}
		case "T*", "ET", "Tm":
			w.newline()
		case "Td", "TD":
			if len(operands) >= 2 {
				tx, ty := operands[len(operands)-2], operands[len(operands)-1]
				switch {
				case ty.kind == tokNumber && ty.num != 0:
					w.newline()
				case tx.kind == tokNumber && tx.num != 0:
					w.space()
				}
			}
		case "BI":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}

	return normalizeText(w.sb.String())
}

func lastOf(operands []token, kind tokenKind) *token {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == kind {
			return &operands[i]
		}
	}
	return nil
}

type textWriter struct {
	sb   strings.Builder
	last byte
}

func (w *textWriter) writeString(t *token) {
	if t == nil || t.text == "" {
		return
	}
	w.sb.WriteString(t.text)
	w.last = t.text[len(t.text)-1]
}

func (w *textWriter) newline() {
	if w.sb.Len() > 0 && w.last != '\n' {
		w.sb.WriteByte('\n')
		w.last = '\n'
	}
}

func (w *textWriter) space() {
	if w.sb.Len() > 0 && w.last != ' ' && w.last != '\n' {
		w.sb.WriteByte(' ')
		w.last = ' '
	}
}

func normalizeText(s string) string {
	var lines []string
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{}, false
	}

	switch c := l.data[l.pos]; c {
	case '(':
		return token{kind: tokString, text: decodePDFString(l.literal())}, true
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokOther}, true
		}
		return token{kind: tokString, text: decodePDFString(l.hexString())}, true
	case '>':
		l.pos++
		if l.pos < len(l.data) && l.data[l.pos] == '>' {
			l.pos++
		}
		return token{kind: tokOther}, true
	case '[':
		l.pos++
		var elems []token
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				break
			}
			if l.data[l.pos] == ']' {
				l.pos++
				break
			}
			t, ok := l.next()
			if !ok {
				break
			}
			elems = append(elems, t)
		}
		return token{kind: tokArray, elems: elems}, true
	case ']', '{', '}', ')':
		l.pos++
		return token{kind: tokOther}, true
	case '/':
		l.pos++
		return token{kind: tokName, text: l.regular()}, true
	}

	word := l.regular()
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, num: n}, true
	}
	return token{kind: tokOperator, text: word}, true
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start && l.pos < len(l.data) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) literal() []byte {
	l.pos++
	var out []byte
	depth := 1

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++

		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

func (l *lexer) hexString() []byte {
	l.pos++
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++

	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, _ := hex.Decode(out, digits)
	return out[:n]
}

// skipInlineImage advances past the binary data of an inline image.
func (l *lexer) skipInlineImage() {
	for {
		tok, ok := l.next()
		if !ok {
			return
		}
		if tok.kind == tokOperator && tok.text == "ID" {
			break
		}
	}

	idx := bytes.Index(l.data[l.pos:], []byte("EI"))
	for idx >= 0 {
		at := l.pos + idx
		before := at == 0 || isSpace(l.data[at-1])
		after := at+2 >= len(l.data) || isSpace(l.data[at+2])
		if before && after {
			l.pos = at + 2
			return
		}
		next := bytes.Index(l.data[at+2:], []byte("EI"))
		if next < 0 {
			break
		}
		idx = at + 2 + next - l.pos
	}
	l.pos = len(l.data)
}

func decodePDFString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}

	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
