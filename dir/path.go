// Package dir resolves the well-known paths used by filesign: the sidecar
// artifact stored next to a signed file, and the user level configuration
// directory holding the trusted keys file.
package dir

import (
	"os"
	"path/filepath"
)

const (
	// SidecarExtension is appended to a signed file's path to derive the
	// path of its signature sidecar artifact.
	SidecarExtension = ".jwt.sign"

	// TrustedKeysFile is the name of the trusted keys configuration file.
	TrustedKeysFile = "trustedkeys.json"

	filesign = "filesign"
)

var (
	// for mocking
	userConfigDir = os.UserConfigDir

	// UserConfig is the user level configuration directory.
	UserConfig string
)

func init() {
	loadPath()
}

func loadPath() {
	config, err := userConfigDir()
	if err != nil {
		panic(err)
	}
	UserConfig = filepath.Join(config, filesign)
}

// SidecarPath returns the sidecar artifact path for the given file.
func SidecarPath(filePath string) string {
	return filePath + SidecarExtension
}

// TrustedKeysPath returns the path of the trusted keys configuration file.
func TrustedKeysPath() string {
	return filepath.Join(UserConfig, TrustedKeysFile)
}
