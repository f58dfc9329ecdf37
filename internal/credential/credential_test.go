package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	assert.Equal(t, "sk-test", Static("sk-test").Secret())
	assert.Equal(t, "", Static("").Secret())
}

func TestEnv_ReadsOnEveryCall(t *testing.T) {
	t.Setenv("AIAPI_TEST_KEY", "first")
	src := Env{Key: "AIAPI_TEST_KEY"}
	assert.Equal(t, "first", src.Secret())

	t.Setenv("AIAPI_TEST_KEY", "second")
	assert.Equal(t, "second", src.Secret())
}

func TestEnv_MissingIsEmpty(t *testing.T) {
	assert.Equal(t, "", Env{Key: "AIAPI_TEST_DEFINITELY_UNSET"}.Secret())
}

func TestFunc(t *testing.T) {
	calls := 0
	src := Func(func() string {
		calls++
		return "k"
	})
	assert.Equal(t, "k", src.Secret())
	assert.Equal(t, 1, calls)
}

func TestFromEnv_LoadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AIAPI_DOTENV_KEY=from-file\n"), 0o600))

	t.Setenv("AIAPI_DOTENV_KEY", "")
	require.NoError(t, os.Unsetenv("AIAPI_DOTENV_KEY"))

	src, err := FromEnv("AIAPI_DOTENV_KEY", path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", src.Secret())
}

func TestFromEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AIAPI_DOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("AIAPI_DOTENV_KEEP", "from-env")

	src, err := FromEnv("AIAPI_DOTENV_KEEP", path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", src.Secret())
}

func TestFromEnv_MissingDotenvIsIgnored(t *testing.T) {
	src, err := FromEnv("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Env{Key: DefaultEnvKey}, src)
}
