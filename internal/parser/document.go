// Package parser locates the header and footer regions of an HTML page.
//
// The page is tokenized with golang.org/x/net/html and the raw byte offset of
// every token is kept, so a located region can be spliced out of the original
// text while every byte outside it is preserved exactly.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Span is a half-open byte range [Start, End) of the source document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

type token struct {
	kind  html.TokenType
	name  string // tag name, or trimmed text for comments
	id    string
	start int
	end   int
}

// Document is a tokenized HTML page.
type Document struct {
	src  []byte
	toks []token
}

// Parse tokenizes src. The returned Document keeps a reference to src.
func Parse(src []byte) (*Document, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	d := &Document{src: src}
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("parser: tokenize: %w", z.Err())
		}
		n := len(z.Raw())
		tok := token{kind: tt, start: offset, end: offset + n}
		offset += n

		switch tt {
		case html.CommentToken:
			tok.name = strings.TrimSpace(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			tok.name = t.Data
			for _, a := range t.Attr {
				if a.Key == "id" {
					tok.id = a.Val
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tok.name = string(name)
		default:
			continue
		}
		d.toks = append(d.toks, tok)
	}
	if offset != len(src) {
		return nil, fmt.Errorf("parser: tokenized %d of %d bytes", offset, len(src))
	}
	return d, nil
}

// Text returns the source bytes covered by s.
func (d *Document) Text(s Span) []byte {
	return d.src[s.Start:s.End]
}

// Placeholder returns the span from the `<!-- comment -->` marker through
// the closing tag of the first `<div id="id">` that follows it.
func (d *Document) Placeholder(comment, id string) (Span, bool) {
	ci := d.find(0, func(t token) bool {
		return t.kind == html.CommentToken && t.name == comment
	})
	if ci < 0 {
		return Span{}, false
	}
	di := d.find(ci+1, func(t token) bool {
		return isStart(t) && t.name == "div" && t.id == id
	})
	if di < 0 {
		return Span{}, false
	}
	end := d.matchClose(di)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: d.toks[ci].start, End: d.toks[end].end}, true
}

// HasComment reports whether a comment with the given trimmed text exists.
func (d *Document) HasComment(comment string) bool {
	return d.find(0, func(t token) bool {
		return t.kind == html.CommentToken && t.name == comment
	}) >= 0
}

// StartTag returns the span of the first start tag with the given name.
func (d *Document) StartTag(name string) (Span, bool) {
	i := d.find(0, func(t token) bool { return isStart(t) && t.name == name })
	if i < 0 {
		return Span{}, false
	}
	return d.span(i), true
}

// Through returns the span from the first `<from>` start tag through the
// first `</to>` end tag after it. `<body>` through `</header>` is the
// structural header region.
func (d *Document) Through(from, to string) (Span, bool) {
	fi := d.find(0, func(t token) bool { return isStart(t) && t.name == from })
	if fi < 0 {
		return Span{}, false
	}
	ti := d.find(fi+1, func(t token) bool { return t.kind == html.EndTagToken && t.name == to })
	if ti < 0 {
		return Span{}, false
	}
	return Span{Start: d.toks[fi].start, End: d.toks[ti].end}, true
}

// Element returns the span of the first element with the given name, from
// its start tag through its matching end tag.
func (d *Document) Element(name string) (Span, bool) {
	i := d.find(0, func(t token) bool { return isStart(t) && t.name == name })
	if i < 0 {
		return Span{}, false
	}
	end := d.matchClose(i)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: d.toks[i].start, End: d.toks[end].end}, true
}

func (d *Document) span(i int) Span {
	return Span{Start: d.toks[i].start, End: d.toks[i].end}
}

func (d *Document) find(from int, match func(token) bool) int {
	for i := from; i < len(d.toks); i++ {
		if match(d.toks[i]) {
			return i
		}
	}
	return -1
}

// matchClose returns the index of the end tag closing the start tag at i,
// counting nested elements of the same name. A self-closing tag closes
// itself.
func (d *Document) matchClose(i int) int {
	open := d.toks[i]
	if open.kind == html.SelfClosingTagToken {
		return i
	}
	depth := 1
	for j := i + 1; j < len(d.toks); j++ {
		t := d.toks[j]
		if t.name != open.name {
			continue
		}
		switch t.kind {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func isStart(t token) bool {
	return t.kind == html.StartTagToken || t.kind == html.SelfClosingTagToken
}

// Splice returns a copy of src with the bytes in s replaced by repl.
func Splice(src []byte, s Span, repl []byte) []byte {
	out := make([]byte, 0, len(src)-s.Len()+len(repl))
	out = append(out, src[:s.Start]...)
	out = append(out, repl...)
	out = append(out, src[s.End:]...)
	return out
}
