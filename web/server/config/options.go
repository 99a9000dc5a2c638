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

package config

import (
	"time"

	"github.com/caiflower/static-httpd/pkg/tools"
)

type Option func(*Options) *Options

type Options struct {
	Name           string        `yaml:"name" default:"static-httpd"`
	Addr           string        `yaml:"addr" default:"localhost:8080"`
	DocumentRoot   string        `yaml:"documentRoot" default:"./www"`
	ReadBufferSize int           `yaml:"readBufferSize" default:"1024"` // 单次读取的最大字节数，超出部分被丢弃
	ReadTimeout    time.Duration `yaml:"readTimeout" default:"20s"`
	WriteTimeout   time.Duration `yaml:"writeTimeout" default:"35s"`
	MetricsAddr    string        `yaml:"metricsAddr"` // 为空时不暴露/metrics
	LimiterEnabled bool          `yaml:"limiterEnabled"`
	Qps            int           `yaml:"qps" default:"1000"`
	Burst          int           `yaml:"burst"`
}

func NewOptions(opts []Option) *Options {
	options := &Options{}
	_ = tools.DoTagFunc(options, []tools.TagFunc{tools.SetDefaultValueIfNil})

	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

// Fill 补全yaml中未配置的字段
func (o *Options) Fill() error {
	return tools.DoTagFunc(o, []tools.TagFunc{tools.SetDefaultValueIfNil})
}

func WithAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.Addr = addr
		return opts
	}
}

func WithDocumentRoot(root string) Option {
	return func(opts *Options) *Options {
		opts.DocumentRoot = root
		return opts
	}
}

func WithReadBufferSize(size int) Option {
	return func(opts *Options) *Options {
		opts.ReadBufferSize = size
		return opts
	}
}

func WithReadTimeout(readTimeout time.Duration) Option {
	return func(opts *Options) *Options {
		opts.ReadTimeout = readTimeout
		return opts
	}
}

func WithWriteTimeout(writeTimeout time.Duration) Option {
	return func(opts *Options) *Options {
		opts.WriteTimeout = writeTimeout
		return opts
	}
}

func WithMetricsAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.MetricsAddr = addr
		return opts
	}
}

func WithQps(enable bool, qps, burst int) Option {
	return func(opts *Options) *Options {
		opts.LimiterEnabled = enable
		opts.Qps = qps
		opts.Burst = burst
		return opts
	}
}
