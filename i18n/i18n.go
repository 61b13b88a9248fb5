// Package i18n translates the few messages the process shows to users
// outside of the log, such as fatal startup diagnostics.
package i18n

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

// EnvLang forces the language, bypassing system locale detection.
const EnvLang = "GPUWINDOW_LANG"

var (
	lang     string
	langOnce sync.Once
)

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Could not start the windowing system": {
		"pt": "Não foi possível iniciar o sistema de janelas",
		"es": "No se pudo iniciar el sistema de ventanas",
		"ru": "Не удалось запустить оконную систему",
	},
	"Could not create the window": {
		"pt": "Não foi possível criar a janela",
		"es": "No se pudo crear la ventana",
		"ru": "Не удалось создать окно",
	},
	"Invalid configuration": {
		"pt": "Configuração inválida",
		"es": "Configuración no válida",
		"ru": "Неверная конфигурация",
	},
	"The event loop stopped unexpectedly": {
		"pt": "O laço de eventos parou inesperadamente",
		"es": "El bucle de eventos se detuvo inesperadamente",
		"ru": "Цикл событий неожиданно остановился",
	},
}

func detect() string {
	if forced := strings.TrimSpace(os.Getenv(EnvLang)); forced != "" {
		slog.Debug("language forced by environment", "env", EnvLang, "lang", forced)
		return Match(forced)
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		slog.Debug("could not detect user locale, defaulting to english", "error", err)
		return "en"
	}
	slog.Debug("detected user locale", "locale", userLocales[0])
	return Match(userLocales[0])
}

// Match reduces a locale such as "pt_BR" or "es-419" to a supported
// language, falling back to "en".
func Match(loc string) string {
	loc = strings.ToLower(strings.TrimSpace(loc))
	for _, l := range supported {
		if strings.HasPrefix(loc, l) {
			return l
		}
	}
	return "en"
}

// T translates key into the detected language. Unknown keys and english
// return key unchanged.
func T(key string) string {
	return Translate(GetLang(), key)
}

// Translate translates key into language l.
func Translate(l, key string) string {
	if translated, ok := translations[key][l]; ok {
		return translated
	}
	return key
}

// GetLang returns the detected language, detecting it on first use.
func GetLang() string {
	langOnce.Do(func() { lang = detect() })
	return lang
}
