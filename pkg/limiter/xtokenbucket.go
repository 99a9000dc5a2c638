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

package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

// XTokenBucket 基于golang.org/x/time/rate的令牌桶
type XTokenBucket struct {
	limiter *rate.Limiter
}

func NewXTokenBucket(qps, burst int) *XTokenBucket {
	if burst <= 0 {
		burst = qps
	}
	return &XTokenBucket{
		limiter: rate.NewLimiter(rate.Limit(qps), burst),
	}
}

func (x *XTokenBucket) TakeTokenContext(ctx context.Context) error {
	return x.limiter.Wait(ctx)
}
