package tools

import (
	"strings"

	"github.com/google/uuid"
)

// UUID 返回去掉'-'的32位uuid
func UUID() string {
	return strings.Replace(uuid.NewString(), "-", "", 4)
}

// ShortUUID 取UUID前12位，用作连接级别的traceID
func ShortUUID() string {
	return UUID()[:12]
}
