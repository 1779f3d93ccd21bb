package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// writeSubmission lays out avatar.png and submission.json in a temp dir.
func writeSubmission(t *testing.T, doc map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	avatar := filepath.Join(dir, "avatar.png")
	require.NoError(t, os.WriteFile(avatar, pngHeader, 0o644))

	if _, ok := doc["avatar"]; !ok {
		doc["avatar"] = avatar
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "submission.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func validDoc() map[string]any {
	return map[string]any{
		"name":     "ana souza",
		"email":    "ana@gmail.com",
		"password": "secret1",
		"techs": []map[string]any{
			{"title": "Go", "knowledge": 80},
			{"title": "SQL", "knowledge": "55"},
		},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_Accepted(t *testing.T) {
	out, err := execute(t, "validate", writeSubmission(t, validDoc()))
	require.NoError(t, err)

	var got struct {
		Data struct {
			Name  string `json:"name"`
			Techs []struct {
				Knowledge int `json:"knowledge"`
			} `json:"techs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Ana Souza", got.Data.Name)
	require.Len(t, got.Data.Techs, 2)
	assert.Equal(t, 55, got.Data.Techs[1].Knowledge)
}

func TestValidate_Invalid(t *testing.T) {
	doc := validDoc()
	doc["email"] = "ana@yahoo.com"
	doc["techs"] = []map[string]any{{"title": "Go", "knowledge": 12.5}}

	out, err := execute(t, "validate", writeSubmission(t, doc))
	require.ErrorIs(t, err, errInvalid)

	var got struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.Errors, "email")
	assert.Contains(t, got.Errors, "techs")
	assert.Contains(t, got.Errors, "techs[0].knowledge")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errInvalid)
}

func TestSubmit_MemoryBackend(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"),
		[]byte("storage:\n  backend: memory\n  bucket: cli-test\n"), 0o644))
	t.Setenv("FORMHOOK_ROOT", root)

	out, err := execute(t, "submit", writeSubmission(t, validDoc()))
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ana Souza"`)
}

func TestRun_ExitCodes(t *testing.T) {
	doc := validDoc()
	doc["password"] = "abc"
	assert.Equal(t, exitInvalid, run([]string{"validate", writeSubmission(t, doc)}))
	assert.Equal(t, exitFailure, run([]string{"validate"}))
}
