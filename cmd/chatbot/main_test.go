package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking-chatbot/internal/chatbot/catalog"
	"banking-chatbot/internal/chatbot/classifier/classifiertest"
	"banking-chatbot/internal/chatbot/responder"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	classifiertest.WriteArtifacts(t, dir)

	path := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`model:
  dir: %s
  vectorizer_file: vectorizer_test.json
  classifier_file: model_test.json
  mappings_file: mappings_test.json
session:
  backend: memory
logging:
  level: error
  format: json
  output: stderr
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = ""
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPredictCmd_Stateless(t *testing.T) {
	cfg := writeConfig(t)

	out, err := runCLI(t, "--config", cfg, "predict", "-m", "Hi", "-m", "My card was swallowed")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"category":"custom","response":"Hello, valued client!"}`, lines[0])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(classifiertest.CardSwallowed), second["category"])
	assert.Equal(t, catalog.Resolve(classifiertest.CardSwallowed), second["response"])
}

func TestPredictCmd_Session(t *testing.T) {
	cfg := writeConfig(t)

	out, err := runCLI(t, "--config", cfg, "predict", "--session", "demo",
		"-m", "my card got swallowed", "-m", "report a problem")
	require.NoError(t, err)

	assert.Contains(t, out, responder.CardIssues.Template(responder.StageInitial))
	assert.Contains(t, out, responder.CardIssues.Template(responder.StageFollowUp1))
}

func TestPredictCmd_RequiresMessage(t *testing.T) {
	_, err := runCLI(t, "--config", writeConfig(t), "predict")
	assert.ErrorContains(t, err, "--message")
}

func TestPredictCmd_MissingArtifacts(t *testing.T) {
	cfg := writeConfig(t)
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(cfg), "model_test.json")))

	_, err := runCLI(t, "--config", cfg, "predict", "-m", "hello")
	assert.ErrorContains(t, err, "MODEL_LOAD_FAILED")
}
