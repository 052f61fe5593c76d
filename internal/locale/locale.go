package locale

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultLang = "ru"

// Catalog — плоский словарь шаблонов одного языка: ключ шаблона -> строка
// с местами подстановки вида {name}.
type Catalog map[string]string

// Locales — каталоги всех языков. Ядро не собирает строки само: оно
// передаёт сюда ключ шаблона и карту параметров.
type Locales struct {
	defaultLang string
	catalogs    map[string]Catalog
}

// Load читает все файлы *.yml из каталога; имя файла без расширения —
// код языка.
func Load(dir string) (*Locales, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("list locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files in %s", dir)
	}

	l := &Locales{
		defaultLang: DefaultLang,
		catalogs:    make(map[string]Catalog, len(paths)),
	}

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read locale file: %w", err)
		}

		catalog := Catalog{}
		if err := yaml.Unmarshal(raw, &catalog); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", filepath.Base(path), err)
		}

		lang := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		l.catalogs[lang] = catalog
	}

	return l, nil
}

// WithDefault задаёт язык, на который откатывается незнакомый код языка.
func (l *Locales) WithDefault(lang string) *Locales {
	l.defaultLang = lang
	return l
}

// Languages возвращает отсортированные коды загруженных языков.
func (l *Locales) Languages() []string {
	langs := make([]string, 0, len(l.catalogs))
	for lang := range l.catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	return langs
}

// Has сообщает, загружен ли каталог для языка.
func (l *Locales) Has(lang string) bool {
	_, ok := l.catalogs[lang]
	return ok
}

// Render подставляет параметры в шаблон. Незнакомый язык откатывается на
// язык по умолчанию, незнакомый ключ возвращается как есть, чтобы дыру в
// каталоге было видно в чате, а не в панике.
func (l *Locales) Render(lang, key string, params map[string]string) string {
	tmpl, ok := l.lookup(lang, key)
	if !ok {
		return key
	}

	if len(params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (l *Locales) lookup(lang, key string) (string, bool) {
	if catalog, ok := l.catalogs[lang]; ok {
		if tmpl, ok := catalog[key]; ok {
			return tmpl, true
		}
	}

	if catalog, ok := l.catalogs[l.defaultLang]; ok {
		if tmpl, ok := catalog[key]; ok {
			return tmpl, true
		}
	}

	return "", false
}
