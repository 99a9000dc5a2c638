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

package handler

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caiflower/static-httpd/pkg/logger"
	"github.com/caiflower/static-httpd/web/protocol"
	"github.com/caiflower/static-httpd/web/resolver"
)

var ErrFileRead = errors.New("read resolved file failed")

type ReadFileFunc func(name string) ([]byte, error)

type Option func(*RequestHandler) *RequestHandler

func WithLogger(log logger.ILog) Option {
	return func(h *RequestHandler) *RequestHandler {
		h.logger = log
		return h
	}
}

func WithMetric(metric *HttpMetric) Option {
	return func(h *RequestHandler) *RequestHandler {
		h.metric = metric
		return h
	}
}

func WithReadFile(fn ReadFileFunc) Option {
	return func(h *RequestHandler) *RequestHandler {
		h.readFile = fn
		return h
	}
}

// RequestHandler drives one request/response cycle per call. It keeps no
// state between calls, so one instance serves every connection.
type RequestHandler struct {
	resolver *resolver.Resolver
	logger   logger.ILog
	metric   *HttpMetric
	readFile ReadFileFunc
}

func NewRequestHandler(r *resolver.Resolver, opts ...Option) *RequestHandler {
	h := &RequestHandler{
		resolver: r,
		logger:   logger.DefaultLogger(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		h = opt(h)
	}
	return h
}

// Handle returns the bytes to send back, or nil when the connection must be
// closed without an answer (empty or unparsable input).
func (h *RequestHandler) Handle(data []byte) []byte {
	start := time.Now()

	req, resp, err := h.HandleRequest(data)
	if err != nil {
		var parseErr *protocol.ParseError
		switch {
		case errors.Is(err, protocol.ErrEmptyRequest):
			h.logger.Debug("Empty request, no response.")
			h.saveDrop(dropEmpty)
		case errors.As(err, &parseErr):
			h.logger.Warn("Bad request, close without response. Error: %s", err.Error())
			h.saveDrop(dropParse)
		default:
			h.logger.Error("Handle request failed. Error: %s", err.Error())
		}
		return nil
	}

	out := resp.Build()
	cost := time.Since(start)
	host, _ := req.Header(protocol.HeaderHost)
	userAgent, _ := req.Header(protocol.HeaderUserAgent)
	h.logger.Info("%s %s %s host=%q ua=%q -> %d %s [%d bytes] cost %v", req.Method, req.Path, req.Version, host, userAgent, resp.StatusCode, resp.StatusText, len(resp.Body), cost)
	if h.metric != nil {
		h.metric.saveMetric(resp.StatusCode, req.Method, cost)
	}
	return out
}

// HandleRequest parses data and dispatches it. The error is non-nil only when
// no response should be sent.
func (h *RequestHandler) HandleRequest(data []byte) (*protocol.Request, *protocol.Response, error) {
	req, err := protocol.ParseRequest(data)
	if err != nil {
		return nil, nil, err
	}

	return req, h.dispatch(req), nil
}

func (h *RequestHandler) dispatch(req *protocol.Request) *protocol.Response {
	switch req.Method {
	case protocol.MethodGet:
		return h.onGet(req)
	default:
		return protocol.NewResponse(protocol.StatusMethodNotAllowed)
	}
}

func (h *RequestHandler) onGet(req *protocol.Request) *protocol.Response {
	res, err := h.resolver.Resolve(req.Path)
	if err != nil {
		if errors.Is(err, resolver.ErrPathEscape) {
			h.logger.Warn("Reject path outside document root. %s", err.Error())
		} else {
			h.logger.Debug("Resolve %s failed. %s", req.Path, err.Error())
		}
		return protocol.NewResponse(protocol.StatusNotFound)
	}

	switch res.Kind {
	case resolver.KindRedirect:
		resp := protocol.NewResponse(protocol.StatusMoved)
		resp.Header.Set(protocol.HeaderContentType, protocol.ContentTypeHTML)
		resp.Header.Set(protocol.HeaderLocation, res.Location)
		return resp
	case resolver.KindFile:
		body, err := h.readFile(res.FilePath)
		if err != nil {
			// 文件在解析之后被删除或无权限读取，与不存在同样处理
			h.logger.Error("%s", fmt.Errorf("%w: %s: %v", ErrFileRead, res.FilePath, err).Error())
			return protocol.NewResponse(protocol.StatusNotFound)
		}
		resp := protocol.NewResponse(protocol.StatusOK)
		resp.Header.Set(protocol.HeaderContentType, res.ContentType)
		resp.Body = body
		return resp
	default:
		h.logger.Error("Unknown resolution kind %s for %s", res.Kind, req.Path)
		return protocol.NewResponse(protocol.StatusNotFound)
	}
}

func (h *RequestHandler) saveDrop(reason string) {
	if h.metric != nil {
		h.metric.saveDrop(reason)
	}
}
