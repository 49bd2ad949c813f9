// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides UI string translation and locale-aware formatting.
// Every call takes the language explicitly; there is no ambient culture.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when nothing better matches.
const DefaultLanguage = "tr"

// SupportedLanguages lists the UI languages in display order.
var SupportedLanguages = []string{"tr", "en", "de", "fr", "es", "ru"}

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// Init loads every supported catalog. defaultLang falls back to
// DefaultLanguage when empty or unsupported.
func Init(logger *slog.Logger, defaultLang string) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLanguage,
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
	}

	if code, ok := normalize(defaultLang); ok {
		c.defaultLang = code
	} else if defaultLang != "" && logger != nil {
		logger.Warn("unsupported default language, using fallback",
			"language", defaultLang, "fallback", DefaultLanguage)
	}

	catalog = c

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages, "default", c.defaultLang)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := "locales/" + lang + "/messages.json"
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	msgs := make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		msgs[msg.ID] = msg.Translation
	}

	c.mu.Lock()
	c.translations[lang] = msgs
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgs))
	}
	return nil
}

// lookup finds key in lang, then in the default language.
func (c *Catalog) lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if msgs, ok := c.translations[lang]; ok {
		if s, ok := msgs[key]; ok {
			return s, true
		}
	}
	if lang != c.defaultLang {
		if s, ok := c.translations[c.defaultLang][key]; ok {
			if c.logger != nil {
				c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
			}
			return s, true
		}
	}
	return "", false
}

// T translates key into lang, formatting args with fmt verbs in the
// translation. Unknown keys are returned unchanged.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}
	translation, ok := catalog.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Default returns the configured default language.
func Default() string {
	if catalog == nil {
		return DefaultLanguage
	}
	return catalog.defaultLang
}

// normalize maps a culture code such as "tr-TR" or "EN_us" onto a
// supported base language.
func normalize(code string) (string, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	lang := base.String()
	if IsSupported(lang) {
		return lang, true
	}
	return "", false
}

// ParseLanguage returns the supported language for a culture code and
// whether the code matched one.
func ParseLanguage(code string) (string, bool) {
	return normalize(code)
}

// Normalize returns the supported language for a culture code, or the
// default language when the code is empty, malformed or unsupported.
func Normalize(code string) string {
	if lang, ok := normalize(code); ok {
		return lang
	}
	return Default()
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return catalog.defaultLang
	}

	_, idx, conf := catalog.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(catalog.supported) {
		return catalog.defaultLang
	}
	return catalog.supported[idx].String()
}

// IsSupported checks if a language code is one of SupportedLanguages.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// LanguageName returns a language's name in that language ("Türkçe").
func LanguageName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	name := display.Self.Name(tag)
	if name == "" {
		return lang
	}
	// display.Self returns lowercase names for some languages
	r := []rune(name)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// FormatDate renders t as a long date ("2 Ocak 2006") in lang.
func FormatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	month := T(lang, "month."+strconv.Itoa(int(t.Month())))
	return T(lang, "format.date", t.Day(), month, t.Year())
}

// FormatNumber renders n with the grouping separator of lang.
func FormatNumber(lang string, n int64) string {
	tag, err := language.Parse(Normalize(lang))
	if err != nil {
		tag = language.Turkish
	}
	return message.NewPrinter(tag).Sprintf("%d", n)
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// Keys returns every key of a language catalog, for completeness checks.
func Keys(lang string) []string {
	if catalog == nil {
		return nil
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	keys := make([]string, 0, len(catalog.translations[lang]))
	for k := range catalog.translations[lang] {
		keys = append(keys, k)
	}
	return keys
}
