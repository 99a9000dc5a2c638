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

package e

import (
	"fmt"
	"runtime/debug"

	"github.com/caiflower/static-httpd/pkg/logger"
)

// OnError 必须直接被defer调用
func OnError(txt string) {
	if r := recover(); r != nil {
		logger.Error("Got a runtime error %s. %s\n%s", txt, r, string(debug.Stack()))
	}
}

// OnErrorWithLogger 捕获panic并写入指定logger，返回值为捕获到的panic信息
func OnErrorWithLogger(log logger.ILog, txt string, recovered *error) {
	if r := recover(); r != nil {
		log.Error("Got a runtime error %s. %s\n%s", txt, r, string(debug.Stack()))
		if recovered != nil {
			*recovered = fmt.Errorf("%s: panic: %v", txt, r)
		}
	}
}
