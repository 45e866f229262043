package cdkparams

import (
	"os"
	"path/filepath"
	"testing"

	"cdkdeploy/internal/config"
	"cdkdeploy/internal/service/params"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentFrom(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cdk.json"), []byte(`{"app":"go run ."}`), 0o644))
	require.NoError(t, params.NewLocalStore(dir).Write("MyApp", "Dev", params.Parameters{"removalPolicy": "destroy"}))

	env, err := LoadEnvironmentFrom(config.Config{AppKey: "MyApp", EnvKey: "Dev", WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "MyApp", env.AppKey)
	assert.Equal(t, "Dev", env.EnvKey)
	assert.Equal(t, "destroy", env.Get("removalPolicy", "retain"))
	assert.Equal(t, "fallback", env.Get("missing", "fallback"))
}

func TestLoadEnvironmentFrom_RequiresEnvKey(t *testing.T) {
	_, err := LoadEnvironmentFrom(config.Config{WorkDir: t.TempDir()})
	assert.True(t, errors.Is(err, config.ErrEnvKeyRequired))
}

func TestLoadEnvironmentFrom_MissingCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cdk.json"), []byte(`{}`), 0o644))

	_, err := LoadEnvironmentFrom(config.Config{EnvKey: "Dev", WorkDir: dir})
	assert.True(t, errors.Is(err, params.ErrLocalCacheNotFound))
}

func TestEnvironment_Naming(t *testing.T) {
	env := Environment{AppKey: "MyApp", EnvKey: "Dev"}
	assert.Equal(t, "MyAppDevS3Stack", env.StackID("S3Stack"))
	assert.Equal(t, "MyAppDevMyBucket", env.Name("MyBucket"))

	noApp := Environment{EnvKey: "Prod"}
	assert.Equal(t, "ProdS3Stack", noApp.StackID("S3Stack"))
}
