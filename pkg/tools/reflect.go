package tools

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/modern-go/reflect2"
)

var durationType = reflect.TypeOf(time.Duration(0))

type TagFunc func(reflect.StructField, reflect.Value) error

// DoTagFunc 对v(结构体指针)的每个字段依次执行fn
func DoTagFunc(v interface{}, fn []TagFunc) error {
	if reflect2.IsNil(v) {
		return nil
	}

	vType := reflect2.TypeOf(v).Type1()
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("DoTagFunc need a struct pointer, but got %s", vType.String())
	}

	indirect := reflect.Indirect(reflect.ValueOf(v))
	for i := 0; i < indirect.NumField(); i++ {
		fieldStruct := vType.Elem().Field(i)
		for _, f := range fn {
			if err := f(fieldStruct, indirect.Field(i)); err != nil {
				return err
			}
		}
	}

	return nil
}

// SetDefaultValueIfNil 字段为零值时按default标签赋值，嵌套结构体递归处理
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) error {
	if !vValue.CanSet() {
		return nil
	}

	tag, hasTag := structField.Tag.Lookup("default")

	switch vValue.Kind() {
	case reflect.Struct:
		t := vValue.Type()
		for i := 0; i < t.NumField(); i++ {
			if err := SetDefaultValueIfNil(t.Field(i), vValue.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		elem := structField.Type.Elem()
		if elem.Kind() != reflect.Struct && !hasTag {
			return nil
		}
		if vValue.IsNil() {
			vValue.Set(reflect.New(elem))
		}
		return SetDefaultValueIfNil(reflect.StructField{Name: structField.Name, Type: elem, Tag: structField.Tag}, vValue.Elem())
	}

	if !hasTag || !vValue.IsZero() {
		return nil
	}

	switch vValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if vValue.Type() == durationType {
			d, err := time.ParseDuration(tag)
			if err != nil {
				return fmt.Errorf("field %s default %q: %w", structField.Name, tag, err)
			}
			vValue.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, tag, err)
		}
		vValue.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, tag, err)
		}
		vValue.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tag, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, tag, err)
		}
		vValue.SetFloat(f)
	case reflect.String:
		vValue.SetString(tag)
	case reflect.Bool:
		b, err := strconv.ParseBool(tag)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, tag, err)
		}
		vValue.SetBool(b)
	}

	return nil
}
