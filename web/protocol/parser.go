package protocol

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	crlf           = []byte("\r\n")
	space          = []byte(" ")
	headerSplitter = []byte(": ")
)

// 只去掉ASCII空白，U+0085、U+00A0等属于数据
const asciiSpace = " \t\r\n\v\f"

// ParseRequest turns the raw bytes read from one connection into a Request.
//
// The buffer is trimmed of surrounding ASCII whitespace first; nothing left means
// ErrEmptyRequest. Lines are separated by CRLF. Every line after the request
// line holding ": " is a header (last duplicate wins). A line without ": ",
// including the blank separator line, makes the following line the raw Data
// payload.
func ParseRequest(raw []byte) (*Request, error) {
	raw = bytes.Trim(raw, asciiSpace)
	if len(raw) == 0 {
		return nil, ErrEmptyRequest
	}

	lines := bytes.Split(raw, crlf)
	req, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	fields := make(map[string][]byte)
	var data []byte
	nextData := false
	for _, line := range lines[1:] {
		if nextData {
			data = line
			nextData = false
			continue
		}
		if i := bytes.Index(line, headerSplitter); i >= 0 {
			fields[string(line[:i])] = line[i+len(headerSplitter):]
			continue
		}
		nextData = true
	}

	for _, name := range RequestHeaders {
		value, ok := fields[string(name)]
		if !ok || len(value) == 0 {
			continue
		}
		if !utf8.Valid(value) {
			return nil, newParseError(string(name), ErrInvalidEncoding)
		}
		s := string(value)

		if name == HeaderContentLength {
			n, err := strconv.Atoi(strings.Trim(s, asciiSpace))
			if err != nil || n < 0 {
				return nil, newParseError(string(name), ErrInvalidContentLength)
			}
			req.ContentLength = &n
			continue
		}
		*req.field(name) = &s
	}

	if len(data) > 0 {
		if !utf8.Valid(data) {
			return nil, newParseError("Data", ErrInvalidEncoding)
		}
		s := string(data)
		req.Data = &s
	}

	return req, nil
}

func parseRequestLine(line []byte) (*Request, error) {
	tokens := bytes.Split(line, space)
	if len(tokens) != 3 {
		return nil, newParseError("RequestLine", ErrMalformedRequestLine)
	}
	for _, token := range tokens {
		if len(token) == 0 {
			return nil, newParseError("RequestLine", ErrMalformedRequestLine)
		}
		if !utf8.Valid(token) {
			return nil, newParseError("RequestLine", ErrInvalidEncoding)
		}
	}
	if tokens[1][0] != '/' {
		return nil, newParseError("Path", ErrMalformedRequestLine)
	}

	return &Request{
		Method:  string(tokens[0]),
		Path:    string(tokens[1]),
		Version: string(tokens[2]),
	}, nil
}
