package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"
)

const (
	// LangParam - query-параметр выбора языка.
	LangParam = "lang"
	// LangCookieName хранит выбранный пользователем язык.
	LangCookieName = "lang"
)

var (
	Arabic  = language.Arabic
	English = language.English
)

var supportedTags = []language.Tag{Arabic, English}

var matcher = language.NewMatcher(supportedTags)

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle - переводы всех поддерживаемых языков.
type Bundle struct {
	defaultTag language.Tag
	catalog    *catalog.Builder
	keys       map[language.Tag]map[string]struct{}
}

// NewBundle загружает встроенные переводы. defaultLang используется, когда
// запрос не указал язык.
func NewBundle(defaultLang string) (*Bundle, error) {
	return loadBundle(localesFS, defaultLang)
}

func loadBundle(fsys fs.FS, defaultLang string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		catalog: catalog.NewBuilder(catalog.Fallback(English)),
		keys:    make(map[language.Tag]map[string]struct{}),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		tag, ok := parseTag(file.Locale)
		if !ok {
			return nil, fmt.Errorf("locale %s: unsupported locale %q", p, file.Locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("locale %s: messages are required", p)
		}
		keys := make(map[string]struct{}, len(file.Messages))
		for key, value := range file.Messages {
			if err := b.catalog.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("locale %s: key %q: %w", p, key, err)
			}
			keys[key] = struct{}{}
		}
		b.keys[tag] = keys
	}

	if _, ok := b.keys[English]; !ok {
		return nil, fmt.Errorf("base locale %s is missing", English)
	}
	b.defaultTag = NormalizeTag(defaultLang)
	return b, nil
}

// Default - язык по умолчанию.
func (b *Bundle) Default() language.Tag { return b.defaultTag }

// Has сообщает, есть ли ключ в переводе для tag.
func (b *Bundle) Has(tag language.Tag, key string) bool {
	_, ok := b.keys[tag][key]
	return ok
}

// Keys - отсортированные ключи перевода для tag.
func (b *Bundle) Keys(tag language.Tag) []string {
	out := make([]string, 0, len(b.keys[tag]))
	for k := range b.keys[tag] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Translator переводит сообщения на один язык.
type Translator struct {
	Tag     language.Tag
	printer *message.Printer
	bundle  *Bundle
	caser   cases.Caser
}

func (b *Bundle) Translator(tag language.Tag) *Translator {
	return &Translator{
		Tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.catalog)),
		bundle:  b,
		caser:   cases.Title(tag),
	}
}

// T возвращает перевод ключа. Неизвестный ключ возвращается как есть.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// TOr переводит key, а если перевода нет, возвращает fallback.
func (t *Translator) TOr(key, fallback string) string {
	if t.bundle.Has(t.Tag, key) {
		return t.T(key)
	}
	return fallback
}

// Lang - код языка для атрибута lang.
func (t *Translator) Lang() string {
	base, _ := t.Tag.Base()
	return base.String()
}

// Dir - направление текста страницы.
func (t *Translator) Dir() string {
	if t.Tag == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Title приводит строку к заголовочному регистру по правилам языка.
func (t *Translator) Title(s string) string {
	return t.caser.String(s)
}

// Number форматирует число с разделителями разрядов языка.
func (t *Translator) Number(v float64) string {
	return t.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Supported - поддерживаемые языки.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// NormalizeTag приводит значение к поддерживаемому языку, иначе возвращает арабский.
func NormalizeTag(value string) language.Tag {
	if tag, ok := parseTag(value); ok {
		return tag
	}
	return Arabic
}

func parseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if sb, _ := supported.Base(); sb == base {
			return supported, true
		}
	}
	return language.Und, false
}

// ResolveTag выбирает язык запроса: ?lang, затем cookie, затем Accept-Language.
// Второе значение true, если язык пришел из query и его стоит запомнить в cookie.
func (b *Bundle) ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return b.defaultTag, false
	}

	if tag, ok := parseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, index, confidence := matcher.Match(tags...); confidence != language.No {
				return supportedTags[index], false
			}
		}
	}

	return b.defaultTag, false
}

// SetLanguageCookie запоминает выбранный язык на год.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
