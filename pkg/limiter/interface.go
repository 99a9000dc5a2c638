package limiter

import (
	"context"
)

type Limiter interface {
	// TakeTokenContext 阻塞直到拿到令牌，ctx取消或等待会超过deadline时返回错误
	TakeTokenContext(ctx context.Context) error
}
