package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumeparser/internal/common"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"
	"resumeparser/internal/vocabulary"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return Execute(context.Background(), testConfig(), errors.NewLogger(slog.LevelError))
}

func TestParseCommandWritesResultsInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.md")
	require.NoError(t, os.WriteFile(first, []byte("Jane Smith\nEDUCATION\nBSc Physics\nSKILLS\nGo, SQL"), 0600))
	require.NoError(t, os.WriteFile(second, []byte("John Roe\nEXPERIENCE\nEngineer at Acme\nPROJECTS\nParser"), 0600))
	out := filepath.Join(dir, "out", "results.json")

	require.NoError(t, run(t, "parse", first, second, "-o", out, "--format", "json", "--concurrency", "2"))
	t.Cleanup(func() { parseConfig = common.CommandConfig{} })

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var results []types.ParseResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Document)
	assert.Equal(t, first, results[0].Document.Filename)
	assert.Equal(t, []string{"BSc Physics"}, results[0].Resume.Education)
	assert.Equal(t, second, results[1].Document.Filename)
	assert.Equal(t, []string{"Engineer at Acme"}, results[1].Resume.Experience)
}

func TestParseCommandRejectsBadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("SKILLS\nGo"), 0600))
	t.Cleanup(func() {
		parseConfig = common.CommandConfig{}
		parseOpts.concurrency = 4
	})

	assert.Error(t, run(t, "parse", path, "--format", "xml"))
	assert.Error(t, run(t, "parse", path, "--format", "json", "--concurrency", "0"))
}

func TestVocabCommand(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("skills:\n  - Elixir\n"), 0600))
	out := filepath.Join(dir, "effective.yaml")
	t.Cleanup(func() { vocabOpts.file, vocabOpts.output = "", "" })

	require.NoError(t, run(t, "vocab", "--file", custom, "-o", out))

	loaded, err := vocabulary.Load(out)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.SectionHeaders)
	assert.Equal(t, vocabulary.Default().SectionHeaders, loaded.SectionHeaders)
}

func TestApplyServeFlags(t *testing.T) {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.StringP("port", "p", "", "")
	flags.String("host", "", "")
	flags.String("tls-mode", "", "")
	flags.String("cert-file", "", "")
	flags.String("key-file", "", "")
	flags.String("ca-file", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "9000", "--tls-mode", "server"}))

	cfg := config.ServerConfig{Host: "localhost", Port: "8080", TLS: config.TLSConfig{Mode: "disabled", CertFile: "keep.pem"}}
	applyServeFlags(flags, &cfg)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "server", cfg.TLS.Mode)
	assert.Equal(t, "keep.pem", cfg.TLS.CertFile)
}

func TestBuildPipeline(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)

	svc, holder, breaker, err := buildPipeline(testConfig(), nil, logger)
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.Same(t, holder.Get(), svc.Vocabulary())
	assert.Nil(t, breaker)

	cfg := testConfig()
	cfg.Extraction.VocabularyFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, _, err = buildPipeline(cfg, nil, logger)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}

func TestContextHelpers(t *testing.T) {
	_, err := getConfigFromContext(context.Background())
	assert.Error(t, err)
	_, err = getLoggerFromContext(context.Background())
	assert.Error(t, err)
}
