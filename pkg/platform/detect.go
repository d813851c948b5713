package platform

import (
	"runtime"

	"github.com/matzehuels/unidep/pkg/errors"
)

// Current returns the platform of the running process.
func Current() (Platform, error) {
	return Detect(runtime.GOOS, runtime.GOARCH)
}

// Detect maps a GOOS/GOARCH pair onto a platform. Combinations without a
// conda platform fail with UNSUPPORTED_PLATFORM.
func Detect(goos, goarch string) (Platform, error) {
	switch goos {
	case "linux":
		switch goarch {
		case "amd64":
			return Linux64, nil
		case "arm64":
			return LinuxAarch64, nil
		case "ppc64le":
			return LinuxPPC64le, nil
		}
		return "", errors.New(errors.ErrCodeUnsupportedPlatform, "unsupported Linux architecture %q", goarch)
	case "darwin":
		switch goarch {
		case "amd64":
			return Osx64, nil
		case "arm64":
			return OsxArm64, nil
		}
		return "", errors.New(errors.ErrCodeUnsupportedPlatform, "unsupported macOS architecture %q", goarch)
	case "windows":
		if goarch == "amd64" || goarch == "arm64" {
			return Win64, nil
		}
		return "", errors.New(errors.ErrCodeUnsupportedPlatform, "unsupported Windows architecture %q", goarch)
	}
	return "", errors.New(errors.ErrCodeUnsupportedPlatform, "unsupported operating system %q", goos)
}
