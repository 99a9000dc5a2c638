//go:build go1.4
// +build go1.4

package v1

import (
	"sync"

	"github.com/modern-go/gls"
)

const (
	TraceID    = "X-Trace-ID"
	RemoteAddr = "Remote-Addr"
)

// goroutine id -> *sync.Map
var localMap sync.Map

func getMapByGoID(goID int64) *sync.Map {
	value, _ := localMap.Load(goID)
	if value == nil {
		_tmp := &sync.Map{}
		localMap.Store(goID, _tmp)
		return _tmp
	}
	return value.(*sync.Map)
}

func current() *sync.Map {
	return getMapByGoID(gls.GoID())
}

// load 只读，不为当前goroutine创建map
func load(key string) (interface{}, bool) {
	value, ok := localMap.Load(gls.GoID())
	if !ok {
		return nil, false
	}
	return value.(*sync.Map).Load(key)
}

func PutTraceID(value string) {
	current().Store(TraceID, value)
}

func GetTraceID() string {
	if v, ok := load(TraceID); ok {
		return v.(string)
	}
	return ""
}

func Put(key string, value interface{}) {
	current().Store(key, value)
}

func Get(key string) interface{} {
	if v, ok := load(key); ok {
		return v
	}
	return nil
}

// Clean 连接处理结束后必须调用，否则goroutine id复用时会读到脏数据
func Clean() {
	localMap.Delete(gls.GoID())
}
