package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

// The commands share the package-level root, so these tests do not run in parallel.
func TestCommands(t *testing.T) {
	dir := t.TempDir()
	vol := writeFile(t, dir, "v.mda", "MDA 1.0\nFormat:\t\tushort little\nDimensions:\t2,1,2\nChannels:\t1\n###\n"+
		"\x01\x00\x02\x00\x03\x00\x04\x00")
	cfg := writeFile(t, dir, "mdatool.yaml", "format: json\nlogLevel: warn\n")
	noCfg := filepath.Join(dir, "absent.yaml")
	outDir := filepath.Join(dir, "out")

	cases := []struct {
		name      string
		args      []string
		wantErr   bool
		wantOut   []string
		wantLog   string
		wantLevel zerolog.Level
	}{
		{
			name:      "inspect uses config format",
			args:      []string{"-c", cfg, "inspect", vol},
			wantOut:   []string{`"type": "ushort"`, `"byte_order": "little"`, `"depth": 2`},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "inspect format flag",
			args:      []string{"-c", cfg, "inspect", "-f", "yaml", vol},
			wantOut:   []string{"type: ushort", "width: 2"},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "stats with log level override",
			args:      []string{"-c", cfg, "--log-level", "debug", "stats", vol},
			wantOut:   []string{`"samples": 4`, `"mean": 2.5`, `"min": 1`, `"max": 4`},
			wantLog:   "slice decoded",
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:      "version with defaults",
			args:      []string{"-c", noCfg, "version"},
			wantOut:   []string{"MDA 1.0"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "export",
			args:      []string{"-c", noCfg, "export", "--prefix", "p", vol, outDir},
			wantLog:   "exported",
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:    "bad log level",
			args:    []string{"-c", noCfg, "--log-level", "loud", "version"},
			wantErr: true,
		},
		{
			name:    "missing input",
			args:    []string{"-c", noCfg, "stats", filepath.Join(dir, "missing.mda")},
			wantErr: true,
			wantLog: "decode failed",
		},
		{
			name:    "malformed config",
			args:    []string{"-c", writeFile(t, dir, "bad.yaml", "limits: [1, 2\n"), "version"},
			wantErr: true,
		},
	}

	origOut, origErr := stdout, stderr
	defer func() { stdout, stderr = origOut, origErr }()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			stdout, stderr = &out, &logs
			root = rootCmd{}

			_, err := newParser(&root).ParseArgs(tc.args)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			for _, w := range tc.wantOut {
				if !strings.Contains(out.String(), w) {
					t.Fatalf("output lacks %q:\n%s", w, out.String())
				}
			}
			if tc.wantLog != "" && !strings.Contains(logs.String(), tc.wantLog) {
				t.Fatalf("log lacks %q:\n%s", tc.wantLog, logs.String())
			}
			if !tc.wantErr && root.log.GetLevel() != tc.wantLevel {
				t.Fatalf("log level %v, want %v", root.log.GetLevel(), tc.wantLevel)
			}
		})
	}

	for _, name := range []string{"p0000.tiff", "p0001.tiff"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("export: %v", err)
		}
	}
}
