// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for Fleetmaster.
// It uses the go-i18n library to load the embedded translation files so the
// terminal shell and CLI can be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   string
	available map[string]string
)

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	av := map[string]string{}
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			continue
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		av[code] = displayName(code)
	}

	if lang == "" {
		lang = "en"
	}

	mu.Lock()
	defer mu.Unlock()
	bundle = b
	available = av
	current = lang
	localizer = i18n.NewLocalizer(bundle, lang, "en")
}

func displayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// T translates a message by its ID. A single map argument is used as
// template data; any other arguments are applied fmt-style to the
// translated text. Unknown IDs fall back to the ID itself.
func T(messageID string, args ...any) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()
	if l == nil {
		Init("en")
		mu.RLock()
		l = localizer
		mu.RUnlock()
	}

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			cfg.TemplateData = data
			args = nil
		}
	}
	msg, err := l.Localize(cfg)
	if err != nil {
		msg = messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetLang returns the active language code.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetAvailableLocales maps locale codes to their display names.
func GetAvailableLocales() map[string]string {
	mu.RLock()
	if available == nil {
		mu.RUnlock()
		Init("en")
		mu.RLock()
	}
	defer mu.RUnlock()
	out := make(map[string]string, len(available))
	for k, v := range available {
		out[k] = v
	}
	return out
}

// Codes returns the available locale codes sorted.
func Codes() []string {
	av := GetAvailableLocales()
	codes := make([]string, 0, len(av))
	for k := range av {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}
