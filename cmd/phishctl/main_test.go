package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/phishing-detector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "../../internal/model/testdata/logistic.json"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestExtract_FromStdin(t *testing.T) {
	out, err := execute(t, "https://www.example.co.uk/login\n\n  http://  \nhttp://10.0.0.1/a,b\n", "extract")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"https://www.example.co.uk/login", "31", "7", "www", "example", "co.uk", "0", "3", "1"}, records[1])
	assert.Equal(t, []string{"http://", "7", "3", "", "", "", "0", "0", "0"}, records[2])
	assert.Equal(t, []string{"http://10.0.0.1/a,b", "19", "8", "", "10.0.0.1", "", "1", "0", "0"}, records[3])
}

func TestExtract_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("http://example.com\n"), 0o600))

	out, err := execute(t, "", "extract", path)
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.com,18,4,,example,com,0,0,0")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := execute(t, "", "extract", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestScore_Args(t *testing.T) {
	out, err := execute(t, "", "score", "--model", testModel, "--workers", "2",
		"http://192.168.1.1/login.php?acct=verify", "https://www.google.com")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second domain.BatchItem
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, domain.LabelPhishing, first.Prediction)
	assert.Equal(t, "http://192.168.1.1/login.php?acct=verify", first.URL)
	assert.Equal(t, domain.LabelLegitimate, second.Prediction)
	require.NotNil(t, second.Confidence)
	assert.InDelta(t, 0.9983, *second.Confidence, 1e-12)
}

func TestScore_Stdin(t *testing.T) {
	out, err := execute(t, "http://a.com\nhttp://b.com\n", "score", "--model", testModel)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestScore_BadModel(t *testing.T) {
	_, err := execute(t, "", "score", "--model", "missing.json", "http://a.com")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "phishctl version dev\n", out)
}
