package solidity

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokHexNumber
	tokString
	tokHexString
	tokUnicodeString
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string // raw text; decoded content for strings
	start int
	end   int
}

// punctuators sorted longest first so the lexer takes the longest match.
var punctuators = []string{
	">>>=",
	">>>", "<<=", ">>=",
	"**", "=>", "->", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=", "<<", ">>", ":=",
	"(", ")", "[", "]", "{", "}", ";", ",", ".", "?", ":", "=",
	"+", "-", "*", "/", "%", "!", "~", "&", "|", "^", "<", ">", "@",
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src}
	for {
		if err := lx.skipSpaceAndComments(); err != nil {
			return nil, err
		}
		if lx.pos >= len(lx.src) {
			lx.toks = append(lx.toks, token{kind: tokEOF, start: lx.pos, end: lx.pos})
			return lx.toks, nil
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) skipSpaceAndComments() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			nl := strings.IndexByte(lx.src[lx.pos:], '\n')
			if nl < 0 {
				lx.pos = len(lx.src)
			} else {
				lx.pos += nl + 1
			}
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf(lx.pos, "unterminated block comment")
			}
			lx.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) next() error {
	start := lx.pos
	c := lx.src[lx.pos]
	switch {
	case isIdentStart(c):
		for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
			lx.pos++
		}
		word := lx.src[start:lx.pos]
		if (word == "hex" || word == "unicode") && lx.pos < len(lx.src) && (lx.src[lx.pos] == '"' || lx.src[lx.pos] == '\'') {
			return lx.stringLit(start, word)
		}
		lx.emit(tokIdent, word, start)
		return nil
	case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
		return lx.number(start)
	case c == '"' || c == '\'':
		return lx.stringLit(start, "")
	}
	for _, p := range punctuators {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			lx.pos += len(p)
			lx.emit(tokPunct, p, start)
			return nil
		}
	}
	return lx.errorf(start, "unexpected character %q", c)
}

func (lx *lexer) emit(kind tokenKind, text string, start int) {
	lx.toks = append(lx.toks, token{kind: kind, text: text, start: start, end: lx.pos})
}

func (lx *lexer) number(start int) error {
	if strings.HasPrefix(lx.src[lx.pos:], "0x") || strings.HasPrefix(lx.src[lx.pos:], "0X") {
		lx.pos += 2
		for lx.pos < len(lx.src) && (isHexDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
		lx.emit(tokHexNumber, lx.src[start:lx.pos], start)
		return nil
	}
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.pos++
	}
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == '.' && isDigit(lx.src[lx.pos+1]) {
		lx.pos++
		for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		p := lx.pos + 1
		if p < len(lx.src) && lx.src[p] == '-' {
			p++
		}
		if p < len(lx.src) && isDigit(lx.src[p]) {
			lx.pos = p
			for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
				lx.pos++
			}
		}
	}
	lx.emit(tokNumber, lx.src[start:lx.pos], start)
	return nil
}

func (lx *lexer) stringLit(start int, prefix string) error {
	quote := lx.src[lx.pos]
	lx.pos++
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return lx.errorf(start, "unterminated string literal")
		}
		c := lx.src[lx.pos]
		if c == quote {
			lx.pos++
			break
		}
		if c == '\n' {
			return lx.errorf(start, "newline in string literal")
		}
		if c != '\\' || prefix == "hex" {
			b.WriteByte(c)
			lx.pos++
			continue
		}
		if lx.pos+1 >= len(lx.src) {
			return lx.errorf(start, "unterminated string literal")
		}
		esc := lx.src[lx.pos+1]
		lx.pos += 2
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\n':
		case 'x':
			if lx.pos+2 > len(lx.src) {
				return lx.errorf(start, "short hex escape")
			}
			v, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+2], 16, 8)
			if err != nil {
				return lx.errorf(lx.pos, "bad hex escape")
			}
			b.WriteByte(byte(v))
			lx.pos += 2
		case 'u':
			if lx.pos+4 > len(lx.src) {
				return lx.errorf(start, "short unicode escape")
			}
			v, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+4], 16, 32)
			if err != nil {
				return lx.errorf(lx.pos, "bad unicode escape")
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(v))
			b.Write(buf[:n])
			lx.pos += 4
		default:
			b.WriteByte(esc)
		}
	}
	kind := tokString
	switch prefix {
	case "hex":
		kind = tokHexString
	case "unicode":
		kind = tokUnicodeString
	}
	lx.toks = append(lx.toks, token{kind: kind, text: b.String(), start: start, end: lx.pos})
	return nil
}

func (lx *lexer) errorf(pos int, format string, args ...any) error {
	line, col := lineCol(lx.src, pos)
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func lineCol(src string, pos int) (int, int) {
	if pos > len(src) {
		pos = len(src)
	}
	line := strings.Count(src[:pos], "\n") + 1
	col := pos - strings.LastIndexByte(src[:pos], '\n')
	return line, col
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
