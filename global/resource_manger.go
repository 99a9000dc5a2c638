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

package global

import (
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/caiflower/static-httpd/pkg/e"
	"github.com/caiflower/static-httpd/pkg/logger"
	"github.com/caiflower/static-httpd/pkg/syncx"
)

// DefaultResourceManger
// 用于守护进程的优雅退出，如HTTP Server、日志

const (
	DefaultDaemonOrder   = 100000
	defaultResourceOrder = 1000000000
)

type Resource interface {
	Close()
}

type DaemonResource interface {
	Resource
	Name() string
	Start() error
}

type packageResource struct {
	resource Resource
	daemon   DaemonResource
	order    int
}

func (p *packageResource) name() string {
	if p.daemon != nil {
		return p.daemon.Name()
	}
	return "resource"
}

func (p *packageResource) start() error {
	if p.daemon != nil {
		return p.daemon.Start()
	}
	return nil
}

func (p *packageResource) close() {
	defer e.OnError("close " + p.name())
	if p.daemon != nil {
		p.daemon.Close()
	} else {
		p.resource.Close()
	}
}

type resourceManger struct {
	lock      sync.Locker
	resources []*packageResource
	started   []*packageResource
	running   bool
}

var DefaultResourceManger = NewResourceManger()

func NewResourceManger() *resourceManger {
	return &resourceManger{lock: syncx.NewSpinLock()}
}

// Add 普通资源最后关闭
func (rm *resourceManger) Add(resource Resource) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.resources {
		if v.resource == resource {
			return
		}
	}
	rm.resources = append(rm.resources, &packageResource{resource: resource, order: defaultResourceOrder})
}

// AddDaemonWithOrder order小的先启动、先关闭
func (rm *resourceManger) AddDaemonWithOrder(daemon DaemonResource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.resources {
		if v.daemon == daemon {
			return
		}
	}
	rm.resources = append(rm.resources, &packageResource{daemon: daemon, order: order})
}

func (rm *resourceManger) AddDaemon(daemon DaemonResource) {
	rm.AddDaemonWithOrder(daemon, DefaultDaemonOrder)
}

// Start 按order启动全部守护资源，任意一个失败时关闭已启动的资源并返回错误
func (rm *resourceManger) Start() error {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	sort.SliceStable(rm.resources, func(i, j int) bool {
		return rm.resources[i].order < rm.resources[j].order
	})

	rm.started = rm.started[:0]
	for _, resource := range rm.resources {
		if err := resource.start(); err != nil {
			logger.Error("Start '%s' resource failed. Error: %s", resource.name(), err.Error())
			rm.destroy()
			return err
		}
		rm.started = append(rm.started, resource)
	}
	rm.running = true
	return nil
}

// Signal 启动资源并阻塞直到收到退出信号，启动失败时立即返回错误
func (rm *resourceManger) Signal() error {
	sign := make(chan os.Signal, 1)
	signal.Notify(sign, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sign)
	return rm.SignalWith(sign)
}

func (rm *resourceManger) SignalWith(sign <-chan os.Signal) error {
	if err := rm.Start(); err != nil {
		logger.Error("Signal failed. Error: %s", err.Error())
		return err
	}

	s := <-sign
	logger.Info("Accept signal %v. The application is shutting down...", s)
	rm.Destroy()
	return nil
}

func (rm *resourceManger) Destroy() {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if !rm.running {
		return
	}
	rm.destroy()
	rm.running = false
}

func (rm *resourceManger) destroy() {
	for _, resource := range rm.started {
		resource.close()
	}
	rm.started = rm.started[:0]
}
