package launcher

import (
	"bufio"
	"os"
	"strings"
)

// Keys extracted from the AWS CLI files.
const (
	credKeyAccessKeyID     = "aws_access_key_id"
	credKeySecretAccessKey = "aws_secret_access_key"
	credKeyRegion          = "region"
)

// Credentials holds the values extracted from the AWS CLI shared
// credentials and config files. Any value may be empty when the
// corresponding key is absent.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// ExtractCredentials scans the AWS CLI files for the access key pair and
// the default region. Extraction is deliberately line-oriented rather than
// a full ini/profile parse: a missing file or key yields an empty string
// and never fails the launch — the failure, if any, surfaces in whatever
// consumes the variables downstream.
func ExtractCredentials(p Paths) Credentials {
	return Credentials{
		AccessKeyID:     scanValue(p.AWSCredentials, credKeyAccessKeyID),
		SecretAccessKey: scanValue(p.AWSCredentials, credKeySecretAccessKey),
		Region:          scanValue(p.AWSConfig, credKeyRegion),
	}
}

// scanValue returns the value of the first line in path whose field before
// " = " is exactly key, or "" when no such line exists.
func scanValue(path, key string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name, value, ok := strings.Cut(sc.Text(), " = ")
		if ok && name == key {
			return value
		}
	}
	return ""
}
