package env

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalHostIP(t *testing.T) {
	ip := net.ParseIP(GetLocalHostIP())
	if assert.NotNil(t, ip) {
		assert.NotNil(t, ip.To4())
	}
}

func TestConfigPath(t *testing.T) {
	old := ConfigPath
	defer SetDefaultConfigPath(old)

	assert.NotEmpty(t, ConfigPath)
	SetDefaultConfigPath("/tmp/etc")
	assert.Equal(t, "/tmp/etc", ConfigPath)
}
