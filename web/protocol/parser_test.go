package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *Request
	}{
		{
			name: "request line only",
			raw:  "GET / HTTP/1.1\r\n\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1"},
		},
		{
			name: "recognized headers",
			raw: "GET /index.html HTTP/1.1\r\n" +
				"Host: 127.0.0.1:8080\r\n" +
				"User-Agent: curl/8.0\r\n" +
				"Accept-Encoding: gzip\r\n" +
				"Connection: close\r\n" +
				"Content-Type: text/plain\r\n" +
				"Content-Length: 5\r\n\r\n",
			want: &Request{
				Method:         "GET",
				Path:           "/index.html",
				Version:        "HTTP/1.1",
				Host:           strPtr("127.0.0.1:8080"),
				UserAgent:      strPtr("curl/8.0"),
				AcceptEncoding: strPtr("gzip"),
				Connection:     strPtr("close"),
				ContentType:    strPtr("text/plain"),
				ContentLength:  intPtr(5),
			},
		},
		{
			name: "unrecognized and lowercase headers are dropped",
			raw:  "GET / HTTP/1.1\r\nAccept: */*\r\nhost: lower\r\nX-Custom: 1\r\n\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1"},
		},
		{
			name: "last duplicate wins",
			raw:  "GET / HTTP/1.1\r\nHost: first\r\nHost: second\r\n\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1", Host: strPtr("second")},
		},
		{
			name: "value split on first separator only",
			raw:  "GET / HTTP/1.1\r\nHost: a: b\r\n\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1", Host: strPtr("a: b")},
		},
		{
			name: "empty value is absent",
			raw:  "GET / HTTP/1.1\r\nHost: \r\nConnection: keep-alive\r\n\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1", Connection: strPtr("keep-alive")},
		},
		{
			name: "line after blank separator is data",
			raw:  "POST /form HTTP/1.1\r\nContent-Length: 7\r\n\r\na=1&b=2",
			want: &Request{Method: "POST", Path: "/form", Version: "HTTP/1.1", ContentLength: intPtr(7), Data: strPtr("a=1&b=2")},
		},
		{
			name: "only the first line after the marker is captured",
			raw:  "POST / HTTP/1.1\r\n\r\nline1\r\nline2",
			want: &Request{Method: "POST", Path: "/", Version: "HTTP/1.1", Data: strPtr("line1")},
		},
		{
			name: "non header line arms data capture",
			raw:  "GET / HTTP/1.1\r\ngarbage\r\nHost: swallowed\r\n",
			want: &Request{Method: "GET", Path: "/", Version: "HTTP/1.1", Data: strPtr("Host: swallowed")},
		},
		{
			name: "surrounding whitespace is trimmed",
			raw:  "\r\n  GET /a.css HTTP/1.0\r\nHost: x\r\n\r\n\r\n",
			want: &Request{Method: "GET", Path: "/a.css", Version: "HTTP/1.0", Host: strPtr("x")},
		},
		{
			name: "non ascii whitespace is kept",
			raw:  "POST / HTTP/1.1\r\n\r\nbody\xc2\xa0\xc2\x85\r\n\v\f",
			want: &Request{Method: "POST", Path: "/", Version: "HTTP/1.1", Data: strPtr("body\u00a0\u0085")},
		},
		{
			name: "arbitrary method token",
			raw:  "BREW /pot HTTP/1.1",
			want: &Request{Method: "BREW", Path: "/pot", Version: "HTTP/1.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tt.raw))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRequest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRequestEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\r\n\r\n", "\t\n", "\v\f "} {
		_, err := ParseRequest([]byte(raw))
		assert.ErrorIs(t, err, ErrEmptyRequest, "%q", raw)
	}
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		field string
		cause error
	}{
		{"one token", []byte("GET\r\nHost: x\r\n\r\n"), "RequestLine", ErrMalformedRequestLine},
		{"two tokens", []byte("GET /\r\n\r\n"), "RequestLine", ErrMalformedRequestLine},
		{"four tokens", []byte("GET / HTTP/1.1 extra\r\n\r\n"), "RequestLine", ErrMalformedRequestLine},
		{"double space", []byte("GET  HTTP/1.1\r\n\r\n"), "RequestLine", ErrMalformedRequestLine},
		{"relative path", []byte("GET index.html HTTP/1.1\r\n\r\n"), "Path", ErrMalformedRequestLine},
		{"bad utf-8 in path", []byte("GET /\xff\xfe HTTP/1.1\r\n\r\n"), "RequestLine", ErrInvalidEncoding},
		{"bad utf-8 in header", []byte("GET / HTTP/1.1\r\nUser-Agent: \xc3\x28\r\n\r\n"), "User-Agent", ErrInvalidEncoding},
		{"bad utf-8 in data", []byte("POST / HTTP/1.1\r\n\r\n\xff"), "Data", ErrInvalidEncoding},
		{"non numeric length", []byte("GET / HTTP/1.1\r\nContent-Length: ten\r\n\r\n"), "Content-Length", ErrInvalidContentLength},
		{"negative length", []byte("GET / HTTP/1.1\r\nContent-Length: -1\r\n\r\n"), "Content-Length", ErrInvalidContentLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest(tt.raw)
			assert.Nil(t, req)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestParseRequestIgnoresBadUnrecognizedHeader(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nX-Bin: \xff\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "/", req.Path)
}

func TestRequestHeader(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: x\r\nContent-Length: 12\r\n"))
	require.NoError(t, err)

	v, ok := req.Header(HeaderHost)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = req.Header(HeaderContentLength)
	assert.True(t, ok)
	assert.Equal(t, "12", v)

	_, ok = req.Header(HeaderUserAgent)
	assert.False(t, ok)
	_, ok = req.Header(HeaderLocation)
	assert.False(t, ok)
}

func TestParseRequestNonASCIISpaceOnly(t *testing.T) {
	_, err := ParseRequest([]byte("\u00a0"))
	assert.NotErrorIs(t, err, ErrEmptyRequest)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
