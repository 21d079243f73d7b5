package i18n

import (
	"errors"
	"strings"
)

var (
	// ErrMissingTranslator is passed to the missing handler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation reports a key without a message for the locale.
	ErrMissingTranslation = errors.New("i18n: translation missing")
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what string to use when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MissingTranslationDefault returns the key unchanged.
func MissingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

// Translate looks key up through t, falling back to onMissing (or the key
// itself) when the translator is absent, fails, or returns an empty string.
func Translate(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	if strings.TrimSpace(key) == "" {
		return key
	}
	if onMissing == nil {
		onMissing = MissingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}

// Messages is an in-memory Translator keyed by locale then message key.
type Messages map[string]map[string]string

// Translate returns the stored message or ErrMissingTranslation.
func (m Messages) Translate(locale, key string, _ ...any) (string, error) {
	if msg, ok := m[locale][key]; ok {
		return msg, nil
	}
	return "", ErrMissingTranslation
}
