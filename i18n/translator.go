package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for rule codes.
// data provides optional metadata to embed in the message (for example,
// "param", the parameter the rule failed with).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Messages may
// reference data entries as {key}.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"required":   "is required",
		"extraneous": "unexpected field",
		"bool":       "must be a boolean",
		"date":       "must be a valid date",
		"email":      "must be a valid email address",
		"in":         "must be one of the allowed values",
		"in_keys":    "must be one of the allowed keys",
		"is_array":   "must be a list",
		"is_string":  "must be a string",
		"max":        "must be at most {param}",
		"max_length": "must be at most {param} characters",
		"min":        "must be at least {param}",
		"min_length": "must be at least {param} characters",
		"numeric":    "must be numeric",
		"regexp":     "has an invalid format",
		"time":       "must be a valid time (HH:MM)",
		"trim":       "must be a string",
		"url":        "must be a valid URL",
		"uuid":       "must be a valid UUID",
	},
	"ja": {
		"required":   "必須項目です",
		"extraneous": "想定外の項目です",
		"bool":       "真偽値を指定してください",
		"date":       "日付が不正です",
		"email":      "メールアドレスが不正です",
		"in":         "許可されていない値です",
		"in_keys":    "許可されていないキーです",
		"is_array":   "リストを指定してください",
		"is_string":  "文字列を指定してください",
		"max":        "{param} 以下で指定してください",
		"max_length": "{param} 文字以内で入力してください",
		"min":        "{param} 以上で指定してください",
		"min_length": "{param} 文字以上で入力してください",
		"numeric":    "数値を指定してください",
		"regexp":     "形式が不正です",
		"time":       "時刻が不正です (HH:MM)",
		"trim":       "文字列を指定してください",
		"url":        "URL が不正です",
		"uuid":       "UUID が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		// custom rules and callbacks
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
