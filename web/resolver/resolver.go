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

package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caiflower/static-httpd/web/protocol"
)

const IndexFile = "index.html"

var (
	ErrNotFound   = errors.New("not found")
	ErrPathEscape = errors.New("path escapes document root")
)

type Kind int

const (
	KindFile Kind = iota
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Resolution is where a request path leads: a file to read or a redirect.
type Resolution struct {
	Kind        Kind
	FilePath    string
	ContentType string
	Location    string
}

type Resolver struct {
	root      string // 原始配置，用于拼接
	canonical string // 绝对路径，已解析符号链接
}

// NewResolver binds a resolver to a document root, which must be an existing directory.
func NewResolver(root string) (*Resolver, error) {
	canonical, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("resolve document root %s failed: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("resolve document root %s failed: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}

	return &Resolver{
		root:      strings.TrimSuffix(root, "/"),
		canonical: canonical,
	}, nil
}

func (r *Resolver) Root() string {
	return r.canonical
}

// Resolve maps a request path to a Resolution. ErrNotFound and ErrPathEscape
// are both meant to be answered with 404 so a client cannot probe the layout
// outside the root.
func (r *Resolver) Resolve(requestPath string) (*Resolution, error) {
	if !strings.HasPrefix(requestPath, "/") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}

	candidate := r.root + requestPath
	if _, err := os.Stat(candidate); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}

	// 越界检查必须基于解析完符号链接和".."之后的路径
	canonical, err := canonicalize(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}
	if !r.contains(canonical) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPathEscape, requestPath, canonical)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}

	if info.IsDir() {
		if !strings.HasSuffix(requestPath, "/") {
			return &Resolution{Kind: KindRedirect, Location: requestPath + "/"}, nil
		}
		return r.resolveIndex(requestPath, canonical)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, requestPath)
	}

	return &Resolution{Kind: KindFile, FilePath: canonical, ContentType: ContentType(requestPath)}, nil
}

func (r *Resolver) resolveIndex(requestPath, dir string) (*Resolution, error) {
	index := filepath.Join(dir, IndexFile)
	info, err := os.Stat(index)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s has no %s", ErrNotFound, requestPath, IndexFile)
	}

	// index.html 自身也可能是指向根目录外的符号链接
	canonical, err := canonicalize(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}
	if !r.contains(canonical) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPathEscape, requestPath, canonical)
	}

	return &Resolution{Kind: KindFile, FilePath: canonical, ContentType: ContentType(index)}, nil
}

func (r *Resolver) contains(canonical string) bool {
	if canonical == r.canonical {
		return true
	}
	prefix := r.canonical
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(canonical, prefix)
}

// ContentType .css为text/css，其余一律text/html
func ContentType(path string) string {
	if strings.HasSuffix(path, ".css") {
		return protocol.ContentTypeCSS
	}
	return protocol.ContentTypeHTML
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
