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

package tools

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileConfig struct {
	Name    string        `yaml:"name" default:"default"`
	Root    string        `yaml:"root" default:"./www"`
	Timeout time.Duration `yaml:"timeout" default:"20s"`
	Sub     testSubConfig `yaml:"sub"`
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("name: demo\ntimeout: 3s\n"), 0644))

	c := &fileConfig{}
	require.NoError(t, LoadConfig(filename, c))
	assert.Equal(t, "demo", c.Name)
	assert.Equal(t, "./www", c.Root)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, 100, c.Sub.Qps)
}

func TestLoadConfigMissingFile(t *testing.T) {
	c := &fileConfig{}
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), c))

	loaded, err := LoadConfigIfExist(filepath.Join(t.TempDir(), "none.yaml"), c)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "default", c.Name)
	assert.Equal(t, 20*time.Second, c.Timeout)
}

func TestLoadConfigBadYaml(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("name: [unclosed\n"), 0644))

	_, err := LoadConfigIfExist(filename, &fileConfig{})
	assert.Error(t, err)
}
