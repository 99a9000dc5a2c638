package tools

import (
	"errors"
	"io/fs"
)

// LoadConfig 读取yaml配置文件并填充default标签
func LoadConfig(filename string, v interface{}) error {
	if err := UnmarshalFileYaml(filename, v); err != nil {
		return err
	}

	return DoTagFunc(v, []TagFunc{SetDefaultValueIfNil})
}

// LoadConfigIfExist 与LoadConfig相同，但配置文件不存在时只使用默认值
func LoadConfigIfExist(filename string, v interface{}) (loaded bool, err error) {
	err = UnmarshalFileYaml(filename, v)
	switch {
	case err == nil:
		loaded = true
	case errors.Is(err, fs.ErrNotExist):
		err = nil
	default:
		return false, err
	}

	return loaded, DoTagFunc(v, []TagFunc{SetDefaultValueIfNil})
}
