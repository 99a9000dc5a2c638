package e

import (
	"testing"

	"github.com/caiflower/static-httpd/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestOnError(t *testing.T) {
	assert.NotPanics(t, func() {
		defer OnError("test")
		panic("boom")
	})
}

func TestOnErrorWithLogger(t *testing.T) {
	var err error
	func() {
		defer OnErrorWithLogger(logger.DefaultLogger(), "conn", &err)
		var m map[string]int
		m["x"] = 1
	}()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conn: panic:")

	err = nil
	func() {
		defer OnErrorWithLogger(logger.DefaultLogger(), "conn", &err)
	}()
	assert.NoError(t, err)
}
