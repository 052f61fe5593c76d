package locale_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/locale"
)

func writeCatalogs(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	ru := "greet: \"Привет, {username}!\"\nonly_ru: \"Только по-русски\"\n"
	en := "greet: \"Hi, {username}!\"\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ru.yml"), []byte(ru), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yml"), []byte(en), 0o644))

	return dir
}

func TestLoad(t *testing.T) {
	rq := require.New(t)

	locales, err := locale.Load(writeCatalogs(t))
	rq.NoError(err)
	rq.Equal([]string{"en", "ru"}, locales.Languages())
	rq.True(locales.Has("ru"))
	rq.False(locales.Has("de"))
}

func TestLoadEmptyDir(t *testing.T) {
	rq := require.New(t)

	_, err := locale.Load(t.TempDir())
	rq.Error(err)
}

func TestLoadBrokenCatalog(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	rq.NoError(os.WriteFile(filepath.Join(dir, "ru.yml"), []byte("greet: [unclosed"), 0o644))

	_, err := locale.Load(dir)
	rq.Error(err)
}

func TestRender(t *testing.T) {
	rq := require.New(t)

	locales, err := locale.Load(writeCatalogs(t))
	rq.NoError(err)

	testCases := []struct {
		name   string
		lang   string
		key    string
		params map[string]string
		want   string
	}{
		{
			name:   "known language and key",
			lang:   "en",
			key:    "greet",
			params: map[string]string{"username": "bob"},
			want:   "Hi, bob!",
		},
		{
			name:   "unknown language falls back to default",
			lang:   "de",
			key:    "greet",
			params: map[string]string{"username": "bob"},
			want:   "Привет, bob!",
		},
		{
			name: "key missing in language falls back to default",
			lang: "en",
			key:  "only_ru",
			want: "Только по-русски",
		},
		{
			name: "unknown key returns the key itself",
			lang: "ru",
			key:  "no_such_key",
			want: "no_such_key",
		},
		{
			name: "missing params leave placeholder visible",
			lang: "en",
			key:  "greet",
			want: "Hi, {username}!",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, locales.Render(tc.lang, tc.key, tc.params))
		})
	}
}
