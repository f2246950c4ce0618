package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testPaths builds a Paths rooted in a temp directory with every input
// present. Individual tests remove what they need absent.
func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()

	awsDir := filepath.Join(dir, ".aws")
	if err := os.Mkdir(awsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	p := Paths{
		BaseEnv:        filepath.Join(dir, "chromecast.env"),
		CustomEnv:      filepath.Join(dir, "custom.env"),
		CustomTemplate: filepath.Join(dir, "custom.env.template"),
		AWSDir:         awsDir,
		AWSCredentials: filepath.Join(awsDir, "credentials"),
		AWSConfig:      filepath.Join(awsDir, "config"),
	}
	writeFile(t, p.BaseEnv, "PLEX_SUBTITLE_LANG=eng\n")
	writeFile(t, p.CustomTemplate, "# per-host overrides\n")
	return p
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckPrerequisites(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, p *Paths)
		wantErr bool
	}{
		{
			name:   "all present",
			mutate: func(t *testing.T, p *Paths) {},
		},
		{
			name: "base env file missing",
			mutate: func(t *testing.T, p *Paths) {
				if err := os.Remove(p.BaseEnv); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
		},
		{
			name: "aws directory missing",
			mutate: func(t *testing.T, p *Paths) {
				if err := os.RemoveAll(p.AWSDir); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
		},
		{
			name: "aws path is a file",
			mutate: func(t *testing.T, p *Paths) {
				if err := os.RemoveAll(p.AWSDir); err != nil {
					t.Fatal(err)
				}
				writeFile(t, p.AWSDir, "not a directory")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPaths(t)
			tt.mutate(t, &p)

			err := CheckPrerequisites(p)
			if tt.wantErr {
				if err == nil {
					t.Fatal("CheckPrerequisites() = nil, want error")
				}
				var le *LaunchError
				if !errors.As(err, &le) || le.Stage != StagePrerequisites {
					t.Errorf("error %v is not a prerequisites LaunchError", err)
				}
				if le.Remediation == "" {
					t.Error("prerequisite error has no remediation hint")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckPrerequisites() error: %v", err)
			}
		})
	}
}

func TestEnsureCustomConfigSeedsOnce(t *testing.T) {
	p := testPaths(t)

	seeded, err := EnsureCustomConfig(p)
	if err != nil {
		t.Fatalf("EnsureCustomConfig() error: %v", err)
	}
	if !seeded {
		t.Fatal("EnsureCustomConfig() = false, want seed on first run")
	}

	got, err := os.ReadFile(p.CustomEnv)
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(p.CustomTemplate)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("seeded file = %q, want template content %q", got, want)
	}

	// A second run must leave the existing file alone.
	writeFile(t, p.CustomEnv, "PLEX_TOKEN=edited\n")
	seeded, err = EnsureCustomConfig(p)
	if err != nil {
		t.Fatalf("EnsureCustomConfig() second run error: %v", err)
	}
	if seeded {
		t.Error("EnsureCustomConfig() reseeded an existing file")
	}
	got, err = os.ReadFile(p.CustomEnv)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "PLEX_TOKEN=edited\n" {
		t.Errorf("existing override file was overwritten: %q", got)
	}
}

func TestEnsureCustomConfigMissingTemplate(t *testing.T) {
	p := testPaths(t)
	if err := os.Remove(p.CustomTemplate); err != nil {
		t.Fatal(err)
	}

	if _, err := EnsureCustomConfig(p); err == nil {
		t.Fatal("EnsureCustomConfig() = nil, want error for missing template")
	}
}
