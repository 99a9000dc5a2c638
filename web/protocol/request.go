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

import "strconv"

const (
	MethodGet = "GET"

	// Version is the only protocol version this server speaks.
	Version = "HTTP/1.1"
)

type HeaderName string

const (
	HeaderHost           HeaderName = "Host"
	HeaderUserAgent      HeaderName = "User-Agent"
	HeaderAcceptEncoding HeaderName = "Accept-Encoding"
	HeaderConnection     HeaderName = "Connection"
	HeaderContentType    HeaderName = "Content-Type"
	HeaderContentLength  HeaderName = "Content-Length"
	HeaderLocation       HeaderName = "Location"
)

// RequestHeaders 请求中会被保留的header，大小写敏感，其余header直接丢弃
var RequestHeaders = []HeaderName{
	HeaderHost,
	HeaderUserAgent,
	HeaderAcceptEncoding,
	HeaderConnection,
	HeaderContentType,
	HeaderContentLength,
}

// Request is one parsed request. Optional fields are nil when the client did
// not send them (or sent them with an empty value).
type Request struct {
	Method  string
	Path    string
	Version string

	Host           *string
	UserAgent      *string
	AcceptEncoding *string
	Connection     *string
	ContentType    *string
	ContentLength  *int

	// Data 空行之后的第一行原始数据
	Data *string
}

// Header returns the textual value of a recognized request header.
func (r *Request) Header(name HeaderName) (string, bool) {
	var v *string
	switch name {
	case HeaderHost:
		v = r.Host
	case HeaderUserAgent:
		v = r.UserAgent
	case HeaderAcceptEncoding:
		v = r.AcceptEncoding
	case HeaderConnection:
		v = r.Connection
	case HeaderContentType:
		v = r.ContentType
	case HeaderContentLength:
		if r.ContentLength == nil {
			return "", false
		}
		return strconv.Itoa(*r.ContentLength), true
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

func (r *Request) field(name HeaderName) **string {
	switch name {
	case HeaderHost:
		return &r.Host
	case HeaderUserAgent:
		return &r.UserAgent
	case HeaderAcceptEncoding:
		return &r.AcceptEncoding
	case HeaderConnection:
		return &r.Connection
	case HeaderContentType:
		return &r.ContentType
	default:
		return nil
	}
}
