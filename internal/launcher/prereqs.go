package launcher

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default locations of the launcher's configuration inputs, relative to the
// working directory (the build context).
const (
	defaultBaseEnvFile       = "config/chromecast.env"
	defaultCustomEnvFile     = "config/custom.env"
	defaultCustomEnvTemplate = "config/custom.env.template"
)

// customEnvPerm is the file mode for the seeded override file.
const customEnvPerm = 0o644

// Paths groups the filesystem locations the launcher reads.
type Paths struct {
	// BaseEnv is the base environment file, required to exist.
	BaseEnv string
	// CustomEnv is the per-host override file, seeded from CustomTemplate
	// when absent.
	CustomEnv string
	// CustomTemplate is the packaged template for CustomEnv.
	CustomTemplate string
	// AWSDir is the AWS CLI configuration directory, required to exist.
	AWSDir string
	// AWSCredentials is the AWS CLI shared credentials file.
	AWSCredentials string
	// AWSConfig is the AWS CLI config file holding the default region.
	AWSConfig string
}

// DefaultPaths returns the standard locations: config files under ./config
// and the AWS CLI files under the user's home directory.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home directory: %w", err)
	}
	awsDir := filepath.Join(home, ".aws")
	return Paths{
		BaseEnv:        defaultBaseEnvFile,
		CustomEnv:      defaultCustomEnvFile,
		CustomTemplate: defaultCustomEnvTemplate,
		AWSDir:         awsDir,
		AWSCredentials: filepath.Join(awsDir, "credentials"),
		AWSConfig:      filepath.Join(awsDir, "config"),
	}, nil
}

// CheckPrerequisites verifies the base environment file and the AWS CLI
// directory both exist. It fails before any container operation so a half
// configured host never gets a half launched container.
func CheckPrerequisites(p Paths) error {
	if _, err := os.Stat(p.BaseEnv); err != nil {
		return &LaunchError{
			Stage:       StagePrerequisites,
			Message:     fmt.Sprintf("base environment file %s not found", p.BaseEnv),
			Remediation: "run ./setup.sh from the repository root to create the base configuration",
			Cause:       err,
		}
	}
	info, err := os.Stat(p.AWSDir)
	if err != nil || !info.IsDir() {
		return &LaunchError{
			Stage:       StagePrerequisites,
			Message:     fmt.Sprintf("AWS configuration directory %s not found", p.AWSDir),
			Remediation: `run "aws configure" to create your AWS CLI credentials`,
			Cause:       err,
		}
	}
	return nil
}

// EnsureCustomConfig seeds the override file from the packaged template when
// it does not exist yet, so later steps can always source it. It reports
// whether the copy happened.
func EnsureCustomConfig(p Paths) (bool, error) {
	if _, err := os.Stat(p.CustomEnv); err == nil {
		return false, nil
	}
	data, err := os.ReadFile(p.CustomTemplate)
	if err != nil {
		return false, &LaunchError{
			Stage:   StageConfig,
			Message: fmt.Sprintf("read override template %s", p.CustomTemplate),
			Cause:   err,
		}
	}
	if err := os.WriteFile(p.CustomEnv, data, customEnvPerm); err != nil {
		return false, &LaunchError{
			Stage:   StageConfig,
			Message: fmt.Sprintf("seed override file %s", p.CustomEnv),
			Cause:   err,
		}
	}
	return true, nil
}
