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

package global

import (
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

type testDaemon struct {
	name     string
	rec      *recorder
	startErr error
}

func (d *testDaemon) Name() string { return d.name }

func (d *testDaemon) Start() error {
	if d.startErr != nil {
		return d.startErr
	}
	d.rec.events = append(d.rec.events, "start "+d.name)
	return nil
}

func (d *testDaemon) Close() { d.rec.events = append(d.rec.events, "close "+d.name) }

type testResource struct {
	rec *recorder
}

func (r *testResource) Close() { r.rec.events = append(r.rec.events, "close resource") }

func TestSignalWith(t *testing.T) {
	rec := &recorder{}
	rm := NewResourceManger()
	res := &testResource{rec: rec}
	server := &testDaemon{name: "server", rec: rec}
	rm.Add(res)
	rm.AddDaemon(server)
	rm.AddDaemonWithOrder(&testDaemon{name: "logger", rec: rec}, 1)
	rm.Add(res)
	rm.AddDaemon(server)

	sign := make(chan os.Signal, 1)
	sign <- syscall.SIGTERM
	require.NoError(t, rm.SignalWith(sign))

	assert.Equal(t, []string{
		"start logger",
		"start server",
		"close logger",
		"close server",
		"close resource",
	}, rec.events)

	rm.Destroy()
	assert.Len(t, rec.events, 5)
}

func TestStartFailureClosesStarted(t *testing.T) {
	rec := &recorder{}
	rm := NewResourceManger()
	rm.AddDaemonWithOrder(&testDaemon{name: "a", rec: rec}, 1)
	rm.AddDaemonWithOrder(&testDaemon{name: "b", rec: rec, startErr: errors.New("bind failed")}, 2)
	rm.AddDaemonWithOrder(&testDaemon{name: "c", rec: rec}, 3)

	err := rm.Start()
	require.Error(t, err)
	assert.Equal(t, []string{"start a", "close a"}, rec.events)
}

func TestSignalWithStartFailure(t *testing.T) {
	rec := &recorder{}
	rm := NewResourceManger()
	rm.AddDaemonWithOrder(&testDaemon{name: "logger", rec: rec}, 1)
	rm.AddDaemon(&testDaemon{name: "server", rec: rec, startErr: errors.New("address already in use")})
	rm.Add(&testResource{rec: rec})

	// 启动失败时不等待信号
	sign := make(chan os.Signal)
	err := rm.SignalWith(sign)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Equal(t, []string{"start logger", "close logger"}, rec.events)
}

type panicResource struct{}

func (panicResource) Close() { panic("close failed") }

func TestDestroyRecoversPanic(t *testing.T) {
	rec := &recorder{}
	rm := NewResourceManger()
	rm.AddDaemonWithOrder(&testDaemon{name: "a", rec: rec}, 1)
	rm.Add(panicResource{})

	require.NoError(t, rm.Start())
	assert.NotPanics(t, rm.Destroy)
	assert.Equal(t, []string{"start a", "close a"}, rec.events)
}
