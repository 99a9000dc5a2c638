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

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caiflower/static-httpd/pkg/e"
	golocalv1 "github.com/caiflower/static-httpd/pkg/golocal/v1"
	"github.com/caiflower/static-httpd/pkg/limiter"
	"github.com/caiflower/static-httpd/pkg/logger"
	"github.com/caiflower/static-httpd/pkg/safego"
	"github.com/caiflower/static-httpd/pkg/tools"
	"github.com/caiflower/static-httpd/web/server/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler turns the bytes of one request into the bytes of its response.
// A nil result closes the connection without writing.
type Handler interface {
	Handle(data []byte) []byte
}

type HandlerFunc func(data []byte) []byte

func (f HandlerFunc) Handle(data []byte) []byte {
	return f(data)
}

// Server accepts one connection at a time, reads a single chunk, answers it
// and closes the connection before accepting the next one.
type Server struct {
	cfg     *config.Options
	handler Handler
	logger  logger.ILog
	limiter limiter.Limiter

	listener      net.Listener
	metricsServer *http.Server
	gatherer      prometheus.Gatherer

	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
	closed  int32

	connLock sync.Mutex
	active   net.Conn // 正在处理的连接，Close时用于打断阻塞的读写
}

func NewServer(cfg *config.Options, handler Handler) *Server {
	return NewServerWithLogger(cfg, handler, logger.DefaultLogger())
}

func NewServerWithLogger(cfg *config.Options, handler Handler, log logger.ILog) *Server {
	if handler == nil {
		panic("[server] handler must not be nil. ")
	}
	if log == nil {
		panic("[server] logger must not be nil. ")
	}
	if cfg == nil {
		cfg = config.NewOptions(nil)
	}
	if err := cfg.Fill(); err != nil {
		panic(fmt.Sprintf("[server] invalid config: %s", err.Error()))
	}

	s := &Server{
		cfg:      cfg,
		handler:  handler,
		logger:   log,
		gatherer: prometheus.DefaultGatherer,
	}
	if cfg.LimiterEnabled && cfg.Qps > 0 {
		s.limiter = limiter.NewXTokenBucket(cfg.Qps, cfg.Burst)
	}
	return s
}

// SetGatherer 替换/metrics暴露的数据源，需在Start之前调用
func (s *Server) SetGatherer(gatherer prometheus.Gatherer) {
	s.gatherer = gatherer
}

func (s *Server) Name() string {
	return fmt.Sprintf("STATIC_HTTP_SERVER:%s", s.cfg.Name)
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.logger.Error("[server] Listen %s failed. Error: %s", s.cfg.Addr, err.Error())
		return err
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(context.Background())
	atomic.StoreInt32(&s.closed, 0)

	if s.cfg.MetricsAddr != "" {
		s.startMetricsServer()
	}

	s.logger.Info(
		"\n***************************** static http server startup ****************************************\n"+
			"************* [name:%s] [documentRoot:%s] listening on %s *********\n"+
			"*************************************************************************************************", s.cfg.Name, s.cfg.DocumentRoot, listener.Addr().String())

	s.running.Add(1)
	safego.Go(s.serve)

	return nil
}

// Addr 返回实际监听地址，端口为0时可用于获取系统分配的端口
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Close() {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) || s.listener == nil {
		return
	}
	s.logger.Info("      **** static http server shutdown ****")

	s.cancel()
	if err := s.listener.Close(); err != nil {
		s.logger.Warn("[server] Close listener %s failed. Error: %s", s.cfg.Addr, err.Error())
	}
	s.interruptActive()
	s.running.Wait()

	if s.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			s.logger.Warn("[server] metrics server shutdown error: %s", err.Error())
		}
		s.metricsServer = nil
	}
	s.logger.Info(" **** static http server gracefully shutdown ****")
}

func (s *Server) serve() {
	defer s.running.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&s.closed) == 1 || errors.Is(err, net.ErrClosed) {
				s.logger.Info("[server] listener is closed and stop accepting.")
				return
			}
			s.logger.Error("[server] accept failed. Error: %s", err.Error())
			time.Sleep(5 * time.Millisecond)
			continue
		}

		if s.limiter != nil {
			if err = s.limiter.TakeTokenContext(s.ctx); err != nil {
				_ = conn.Close()
				continue
			}
		}

		// 同一时刻只处理一个连接
		s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	defer s.setActive(nil)
	defer golocalv1.Clean()
	defer e.OnErrorWithLogger(s.logger, "[server] handle connection", nil)
	s.setActive(conn)

	golocalv1.PutTraceID(tools.ShortUUID())
	golocalv1.Put(golocalv1.RemoteAddr, conn.RemoteAddr().String())

	if s.cfg.ReadTimeout > 0 {
		s.setDeadline(conn.SetReadDeadline, s.cfg.ReadTimeout)
	}
	buf := make([]byte, s.cfg.ReadBufferSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		s.logger.Debug("[server] read from %s failed. Error: %s", conn.RemoteAddr(), err.Error())
		return
	}

	out := s.handler.Handle(buf[:n])
	if out == nil {
		return
	}

	if s.cfg.WriteTimeout > 0 {
		s.setDeadline(conn.SetWriteDeadline, s.cfg.WriteTimeout)
	}
	if _, err = conn.Write(out); err != nil {
		s.logger.Warn("[server] write to %s failed. Error: %s", conn.RemoteAddr(), err.Error())
	}
}

func (s *Server) setActive(conn net.Conn) {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	s.active = conn
	if conn != nil && atomic.LoadInt32(&s.closed) == 1 {
		_ = conn.SetDeadline(time.Now())
	}
}

// setDeadline 已关闭时不再延长deadline
func (s *Server) setDeadline(set func(time.Time) error, timeout time.Duration) {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	if atomic.LoadInt32(&s.closed) == 1 {
		return
	}
	_ = set(time.Now().Add(timeout))
}

func (s *Server) interruptActive() {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	if s.active != nil {
		_ = s.active.SetDeadline(time.Now())
	}
}

func (s *Server) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.metricsServer = &http.Server{
		Addr:    s.cfg.MetricsAddr,
		Handler: mux,
	}

	srv := s.metricsServer
	safego.Go(func() {
		s.logger.Info("[server] metrics listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("[server] metrics server stopped. Error: %s", err.Error())
		}
	})
}
