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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/caiflower/static-httpd/global"
	"github.com/caiflower/static-httpd/global/config"
	"github.com/caiflower/static-httpd/global/env"
	"github.com/caiflower/static-httpd/pkg/logger"
	"github.com/caiflower/static-httpd/pkg/tools"
	"github.com/caiflower/static-httpd/web/handler"
	"github.com/caiflower/static-httpd/web/resolver"
	"github.com/caiflower/static-httpd/web/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "directory containing default.yaml, overrides CONFIG_PATH")
	documentRoot := flag.String("root", "", "document root, overrides server.documentRoot")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	if *configPath != "" {
		env.SetDefaultConfigPath(*configPath)
	}

	cfg := config.DefaultConfig{}
	loaded, err := config.LoadDefaultConfig(&cfg)
	if err != nil {
		fmt.Printf("load config from %s failed. Error: %s\n", env.ConfigPath, err.Error())
		os.Exit(1)
	}
	if *documentRoot != "" {
		cfg.ServerConfig.DocumentRoot = *documentRoot
	}
	if *addr != "" {
		cfg.ServerConfig.Addr = *addr
	}

	logger.InitLogger(&cfg.LoggerConfig)
	if !loaded {
		logger.Warn("%s/default.yaml not found, using default config.", env.ConfigPath)
	}
	logger.Info("config: %s", tools.ToJson(cfg))

	res, err := resolver.NewResolver(cfg.ServerConfig.DocumentRoot)
	if err != nil {
		logger.Fatal("Open document root failed. Error: %s", err.Error())
		logger.DefaultLogger().Close()
		os.Exit(1)
	}

	logger.Info("Serving files under %s", res.Root())

	metric := handler.NewHttpMetric(prometheus.DefaultRegisterer)
	h := handler.NewRequestHandler(res, handler.WithMetric(metric))
	httpServer := server.NewServer(&cfg.ServerConfig, h)

	global.DefaultResourceManger.AddDaemon(httpServer)
	global.DefaultResourceManger.Add(logger.DefaultLogger())
	if err = global.DefaultResourceManger.Signal(); err != nil {
		// 日志是异步输出的，退出前必须先关闭
		logger.DefaultLogger().Close()
		os.Exit(1)
	}
}
