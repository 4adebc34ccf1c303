package dir

import (
	"path/filepath"
	"testing"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		want     string
	}{
		{
			name:     "relative path",
			filePath: "model.bin",
			want:     "model.bin.jwt.sign",
		},
		{
			name:     "absolute path",
			filePath: "/data/release/model.bin",
			want:     "/data/release/model.bin.jwt.sign",
		},
		{
			name:     "file with extension-like suffix",
			filePath: "archive.tar.gz",
			want:     "archive.tar.gz.jwt.sign",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SidecarPath(tt.filePath); got != tt.want {
				t.Errorf("SidecarPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadPath(t *testing.T) {
	wantDir := t.TempDir()
	original := userConfigDir
	userConfigDir = func() (string, error) { return wantDir, nil }
	t.Cleanup(func() {
		userConfigDir = original
		loadPath()
	})
	loadPath()
	if UserConfig != filepath.Join(wantDir, "filesign") {
		t.Errorf("UserConfig = %v, want %v", UserConfig, filepath.Join(wantDir, "filesign"))
	}
	if got := TrustedKeysPath(); got != filepath.Join(UserConfig, "trustedkeys.json") {
		t.Errorf("TrustedKeysPath() = %v, want %v", got, filepath.Join(UserConfig, "trustedkeys.json"))
	}
}
