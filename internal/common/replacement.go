// Package common provides configuration, logging and small shared helpers.
//
// Configuration string values may reference keys stored in the key/value
// store with {key-name} syntax. References are replaced after files are
// loaded and before environment overrides are applied:
//
//	[gemini]
//	api_key = "{gemini_api_key}"
//
// Missing keys are left unchanged and logged as warnings.
package common

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ternarybob/arbor"
)

// keyRefPattern matches {key-name} references in strings
var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences replaces all {key-name} references in input with
// values from kvMap. Unknown keys are left as-is.
func ReplaceKeyReferences(input string, kvMap map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		keyName := match[1 : len(match)-1]
		if value, exists := kvMap[keyName]; exists {
			return value
		}
		logger.Warn().
			Str("reference", match).
			Str("key", keyName).
			Msg("Unresolved key reference - key not found in KV store")
		return match
	})
}

// ReplaceInStruct replaces {key-name} references in the string and []string
// fields of the struct v points to, recursing into nested structs.
func ReplaceInStruct(v interface{}, kvMap map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("ReplaceInStruct requires a pointer, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got pointer to %v", val.Kind())
	}

	replaceInStructValue(val, kvMap, logger)
	return nil
}

func replaceInStructValue(val reflect.Value, kvMap map[string]string, logger arbor.ILogger) {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			oldValue := field.String()
			if newValue := ReplaceKeyReferences(oldValue, kvMap, logger); newValue != oldValue {
				field.SetString(newValue)
				// Values are usually secrets, log the field only
				logger.Debug().Str("field", typ.Field(i).Name).Msg("Replaced key reference in config field")
			}

		case reflect.Struct:
			replaceInStructValue(field, kvMap, logger)

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				elem.SetString(ReplaceKeyReferences(elem.String(), kvMap, logger))
			}
		}
	}
}
