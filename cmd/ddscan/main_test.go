package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const screener = `Symbol,Name,Last Sale
TSLA,Tesla Inc. Common Stock,$250.00
WMT,Walmart Inc. Common Stock,$90.00
ZM,Zoom Video Communications Inc. Class A Common Stock,$70.00
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DDSCAN_CONFIG", "LOG_LEVEL", "LOG_FORMAT", "DIRECTORY_PATH",
		"DDSCAN_SHEET_ID", "DDSCAN_SOURCES", "DATA_DIR", "METRICS_TEXTFILE",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
	} {
		t.Setenv(k, "")
	}
}

// setup writes a directory CSV and a config file and returns the config path.
func setup(t *testing.T, extra string) string {
	t.Helper()
	clearEnv(t)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "screener.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(screener), 0o644))

	cfg := fmt.Sprintf("logging:\n  level: error\ndirectory:\n  path: %s\n%s", csvPath, extra)
	cfgPath := filepath.Join(dir, "ddscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ddscan dev\n", out)
}

func TestResolveArgs(t *testing.T) {
	cfgPath := setup(t, "")

	code, out, stderr := execute(t, "--config", cfgPath, "resolve", "Tesla to the moon", "AMD earnings", "nothing here")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t,
		"TSLA\tTesla to the moon\n"+
			"AMD\tAMD earnings\n"+
			"no ticker found\tnothing here\n", out)
}

func TestExplainJSON(t *testing.T) {
	cfgPath := setup(t, "")

	code, out, stderr := execute(t, "--config", cfgPath, "explain", "--json", "Why Zoom beats WMT")
	require.Equal(t, 0, code, stderr)

	doc := gjson.Parse(out)
	assert.Equal(t, "WMT", doc.Get("explicit.0").String())
	assert.Equal(t, "ZM", doc.Get("inferred").String())
	assert.Equal(t, "WMT", doc.Get("tickers.0").String())
	assert.Equal(t, "ZM", doc.Get("tickers.1").String())
}

func TestExplainText(t *testing.T) {
	cfgPath := setup(t, "")

	code, out, _ := execute(t, "--config", cfgPath, "explain", "Markets are quiet")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "inferred: -\n")
	assert.Contains(t, out, "phrases:  markets markets\n")
}

func TestScanSheet(t *testing.T) {
	created := time.Now().Add(-time.Hour).Unix()
	payload := fmt.Sprintf(`/*O_o*/
google.visualization.Query.setResponse({"status":"ok","table":{"cols":[{"label":"id"},{"label":"title"},{"label":"url"},{"label":"created_utc"}],"rows":[{"c":[{"v":"p1"},{"v":"Walmart is a buy"},{"v":"https://reddit.com/p1"},{"v":"%d"}]}]}});`, created)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	promPath := filepath.Join(t.TempDir(), "ddscan.prom")
	cfgPath := setup(t, fmt.Sprintf("sheet:\n  url: %s\nmetrics:\n  textfile: %s\nhttp:\n  retries: 1\n", srv.URL, promPath))

	code, out, stderr := execute(t, "--config", cfgPath, "scan", "--format", "json")
	require.Equal(t, 0, code, stderr)

	doc := gjson.Parse(out)
	assert.Equal(t, int64(1), doc.Get("#").Int())
	assert.Equal(t, "WMT", doc.Get("0.tickers.0").String())
	assert.Equal(t, "sheet", doc.Get("0.source").String())

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ddscan_posts_resolved_total{kind="inferred"} 1`)
}

func TestScanOutFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`setResponse({"status":"ok","table":{"cols":[],"rows":[]}});`))
	}))
	defer srv.Close()

	cfgPath := setup(t, fmt.Sprintf("sheet:\n  url: %s\n", srv.URL))
	outPath := filepath.Join(t.TempDir(), "out.txt")

	code, out, stderr := execute(t, "--config", cfgPath, "scan", "--out", outPath)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExitCodes(t *testing.T) {
	cfgPath := setup(t, "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"scan", "--bogus"}, 3},
		{"bad format", []string{"--config", cfgPath, "scan", "--format", "xml"}, 3},
		{"unknown source", []string{"--config", cfgPath, "scan", "--source", "twitter"}, 3},
		{"negative days", []string{"--config", cfgPath, "scan", "--days", "-2"}, 3},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "resolve", "x"}, 3},
		{"explain needs a title", []string{"--config", cfgPath, "explain"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.want, code)
			assert.True(t, strings.HasPrefix(stderr, "Error:"), stderr)
		})
	}
}

func TestScanAllSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfgPath := setup(t, fmt.Sprintf("sheet:\n  url: %s\nhttp:\n  retries: 1\n", srv.URL))
	code, _, stderr := execute(t, "--config", cfgPath, "scan")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "scan failed")
}

func TestMissingDirectory(t *testing.T) {
	cfgPath := setup(t, "")
	t.Setenv("DIRECTORY_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	code, _, _ := execute(t, "--config", cfgPath, "resolve", "Tesla")
	assert.Equal(t, 1, code)
}

func TestLookup(t *testing.T) {
	cfgPath := setup(t, "")

	code, out, _ := execute(t, "--config", cfgPath, "lookup", "tsla", "XYZ")
	assert.Equal(t, 0, code)
	assert.Equal(t, "TSLA\tTesla Inc. Common Stock\nXYZ\t(not in directory)\n", out)

	code, _, _ = execute(t, "--config", cfgPath, "lookup", "XYZ")
	assert.Equal(t, 1, code)
}
