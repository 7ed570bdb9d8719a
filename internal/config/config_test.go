package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Sections, 3)
	assert.Equal(t, "Checking System Requirements", cfg.Sections[0].Title)
	assert.Equal(t, "Checking Environment Variables", cfg.Sections[1].Title)
	assert.Equal(t, "Checking Files", cfg.Sections[2].Title)

	var names []string
	for _, r := range cfg.Sections[1].Requirements {
		assert.Equal(t, KindEnv, r.Kind)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"AWS_SSH_KEY_NAME", "AWS_SSH_KEY_PATH", "GITHUB_TOKEN", "AWS_PROFILE"}, names)

	assert.Equal(t, []string{"vagrant", "up"}, cfg.Launch.Command)
	assert.Equal(t, []string{"brew", "install"}, cfg.PackageManagers["darwin"])
}

func TestLoadConfig_EmptyPathIsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadConfig_OverridesOnTopOfDefaults(t *testing.T) {
	path := writeFile(t, "setup.yaml", `
package_managers:
  linux: [sudo, apt-get, install, -y]
sections:
  - title: Only Env
    foot_note: done
    requirements:
      - name: AWS_PROFILE
        kind: env
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sections, 1)
	assert.Equal(t, "Only Env", cfg.Sections[0].Title)
	assert.Equal(t, []string{"brew", "install"}, cfg.PackageManagers["darwin"], "default manager kept")
	assert.Equal(t, []string{"sudo", "apt-get", "install", "-y"}, cfg.PackageManagers["linux"])
	assert.Equal(t, []string{"vagrant", "up"}, cfg.Launch.Command, "launch kept")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "sections: [",
			wantErr: "parse config",
		},
		{
			name: "unknown kind",
			content: `
sections:
  - title: S
    requirements:
      - name: x
        kind: socket
`,
			wantErr: `unknown kind "socket"`,
		},
		{
			name: "file without path",
			content: `
sections:
  - title: S
    requirements:
      - name: license
        kind: file
`,
			wantErr: "path is required",
		},
		{
			name: "github without repo",
			content: `
sections:
  - title: S
    requirements:
      - name: gh
        kind: binary
        source: github
`,
			wantErr: "repo is required",
		},
		{
			name: "empty launch",
			content: `
launch:
  command: []
`,
			wantErr: "launch: command is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "c.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestRequirementValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Requirement
		ok   bool
	}{
		{"binary default source", Requirement{Name: "git", Kind: KindBinary}, true},
		{"binary url", Requirement{Name: "jq", Kind: KindBinary, Source: SourceURL, URL: "https://x/jq"}, true},
		{"binary url missing", Requirement{Name: "jq", Kind: KindBinary, Source: SourceURL}, false},
		{"binary version constraint", Requirement{Name: "git", Kind: KindBinary, Version: ">= 2.30"}, true},
		{"binary bad constraint", Requirement{Name: "git", Kind: KindBinary, Version: "newest"}, false},
		{"binary bad source", Requirement{Name: "jq", Kind: KindBinary, Source: "ftp"}, false},
		{"env", Requirement{Name: "AWS_PROFILE", Kind: KindEnv}, true},
		{"workdir", Requirement{Name: "dir", Kind: KindWorkDir, Path: "automate/ec2"}, true},
		{"command", Requirement{Name: "plugin", Kind: KindCommand, Probe: []string{"vagrant", "plugin", "list"}}, true},
		{"command no probe", Requirement{Name: "plugin", Kind: KindCommand}, false},
		{"command empty install", Requirement{Name: "plugin", Kind: KindCommand, Probe: []string{"x"}, Install: [][]string{{}}}, false},
		{"no name", Requirement{Kind: KindEnv}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "git", Requirement{Name: "git"}.PackageName())
	assert.Equal(t, "hashicorp/tap/hashicorp-vagrant", Requirement{Name: "vagrant", Package: "hashicorp/tap/hashicorp-vagrant"}.PackageName())
}
