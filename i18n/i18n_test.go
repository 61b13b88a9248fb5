package i18n

import "testing"

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"pt_BR":  "pt",
		"es-419": "es",
		"RU":     "ru",
		"en-US":  "en",
		"de":     "en",
		"":       "en",
	}
	for in, want := range cases {
		if got := Match(in); got != want {
			t.Fatalf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTranslate(t *testing.T) {
	if got := Translate("pt", "Could not create the window"); got != "Não foi possível criar a janela" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := Translate("en", "Could not create the window"); got != "Could not create the window" {
		t.Fatalf("english must return the key, got %q", got)
	}
	if got := Translate("pt", "unknown key"); got != "unknown key" {
		t.Fatalf("unknown keys must pass through, got %q", got)
	}
}

func TestEveryMessageIsTranslated(t *testing.T) {
	for key, byLang := range translations {
		for _, l := range supported {
			if byLang[l] == "" {
				t.Fatalf("%q has no %s translation", key, l)
			}
		}
	}
}
