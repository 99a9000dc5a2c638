package safego

import (
	"github.com/caiflower/static-httpd/pkg/e"
	golocalv1 "github.com/caiflower/static-httpd/pkg/golocal/v1"
)

// Go 启动goroutine并继承调用方的traceID，panic会被捕获
func Go(fn func()) {
	traceID := golocalv1.GetTraceID()
	go func() {
		defer golocalv1.Clean()
		defer e.OnError("safeGo")

		if traceID != "" {
			golocalv1.PutTraceID(traceID)
		}
		fn()
	}()
}
