/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package protocol

import (
	"bytes"
	"net/http"
	"strconv"
)

const (
	ContentTypeHTML = "text/html"
	ContentTypeCSS  = "text/css"
)

type Status struct {
	Code int
	Text string
}

var (
	StatusOK               = Status{Code: http.StatusOK, Text: "OK"}
	StatusMoved            = Status{Code: http.StatusMovedPermanently, Text: "Moved"}
	StatusNotFound         = Status{Code: http.StatusNotFound, Text: "NOT FOUND"}
	StatusMethodNotAllowed = Status{Code: http.StatusMethodNotAllowed, Text: "Method Not Allowed"}
)

type Response struct {
	StatusCode int
	StatusText string
	Version    string
	Header     *Header
	Body       []byte
}

func NewResponse(status Status) *Response {
	return &Response{
		StatusCode: status.Code,
		StatusText: status.Text,
		Version:    Version,
		Header:     NewHeader(),
	}
}

// Build serializes the response exactly as it goes on the wire.
//
// A non-empty body first gets Content-Length set to its byte length. The body
// is then preceded by "\r\n\r\n" on top of the CRLF closing the last header
// line, so two blank lines separate headers and body. This is one more than
// RFC 9112 asks for; clients of this server rely on it, so it stays. An empty
// body produces no separator at all.
func (r *Response) Build() []byte {
	if len(r.Body) > 0 {
		r.Header.Set(HeaderContentLength, strconv.Itoa(len(r.Body)))
	}

	buf := bytes.Buffer{}
	buf.WriteString(r.Version)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(r.StatusCode))
	buf.WriteByte(' ')
	buf.WriteString(r.StatusText)
	buf.Write(crlf)
	r.Header.writeTo(&buf)

	if len(r.Body) > 0 {
		buf.Write(crlf)
		buf.Write(crlf)
		buf.Write(r.Body)
	}

	return buf.Bytes()
}
