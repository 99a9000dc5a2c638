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

	"github.com/caiflower/static-httpd/pkg/basic"
)

// Header is an ordered header mapping. Keys are unique and written out in the
// order they were first set.
type Header struct {
	kv *basic.LinkedHashMap
}

func NewHeader() *Header {
	return &Header{kv: basic.NewLinkHashMap()}
}

func (h *Header) Set(name HeaderName, value string) {
	h.kv.Put(string(name), value)
}

func (h *Header) Get(name HeaderName) (string, bool) {
	v, ok := h.kv.Get(string(name))
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (h *Header) Len() int {
	return h.kv.Size()
}

func (h *Header) Keys() []string {
	return h.kv.Keys()
}

// writeTo 每个header输出为 "Name: Value\r\n"
func (h *Header) writeTo(buf *bytes.Buffer) {
	h.kv.Range(func(k string, v interface{}) bool {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v.(string))
		buf.Write(crlf)
		return true
	})
}
