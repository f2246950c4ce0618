package launcher

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names forwarded into the container.
const (
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvAWSDefaultRegion   = "AWS_DEFAULT_REGION"
	EnvSNSTopicARN        = "AWS_SNS_TOPIC_ARN"
	EnvExternalIP         = "EXTERNAL_IP"
	EnvExternalPort       = "EXTERNAL_PORT"
	EnvPlexIPAddress      = "PLEX_IP_ADDRESS"
	EnvPlexPort           = "PLEX_PORT"
	EnvPlexToken          = "PLEX_TOKEN"
	EnvPlexSubtitleLang   = "PLEX_SUBTITLE_LANG"
	EnvYouTubeAPIKey      = "YOUTUBE_API_KEY"
)

// forwardedEnvVars lists every variable injected into the container, in the
// order they appear on the docker command line.
var forwardedEnvVars = []string{
	EnvAWSAccessKeyID,
	EnvAWSSecretAccessKey,
	EnvAWSDefaultRegion,
	EnvSNSTopicARN,
	EnvExternalIP,
	EnvExternalPort,
	EnvPlexIPAddress,
	EnvPlexPort,
	EnvPlexToken,
	EnvPlexSubtitleLang,
	EnvYouTubeAPIKey,
}

// LoadEnvironment sources the base environment file and then the per-host
// override file into the process environment. Later files win on key
// collision, so overrides beat the base config and both beat any value
// already present in the environment.
func LoadEnvironment(p Paths) error {
	if err := godotenv.Overload(p.BaseEnv, p.CustomEnv); err != nil {
		return &LaunchError{
			Stage:   StageEnvironment,
			Message: "source environment files",
			Cause:   err,
		}
	}
	return nil
}

// BuildEnvMap assembles the container's environment: extracted AWS
// credentials, the external IP/port from the command line, and the
// remaining values from the merged process environment. Unset variables
// are forwarded as empty strings.
func BuildEnvMap(creds Credentials, opts *Options) map[string]string {
	return map[string]string{
		EnvAWSAccessKeyID:     creds.AccessKeyID,
		EnvAWSSecretAccessKey: creds.SecretAccessKey,
		EnvAWSDefaultRegion:   creds.Region,
		EnvSNSTopicARN:        os.Getenv(EnvSNSTopicARN),
		EnvExternalIP:         opts.ExternalIP,
		EnvExternalPort:       opts.ExternalPort,
		EnvPlexIPAddress:      os.Getenv(EnvPlexIPAddress),
		EnvPlexPort:           os.Getenv(EnvPlexPort),
		EnvPlexToken:          os.Getenv(EnvPlexToken),
		EnvPlexSubtitleLang:   os.Getenv(EnvPlexSubtitleLang),
		EnvYouTubeAPIKey:      os.Getenv(EnvYouTubeAPIKey),
	}
}
