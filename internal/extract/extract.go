// Package extract unpacks downloaded ChromeDriver archives and prepares the
// extracted executable for use.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter/v2"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
)

// ExecutableMode is the mode set on the installed executable on unix-like platforms.
const ExecutableMode os.FileMode = 0o755

// Zip extracts every entry of the zip archive at archivePath into outputDir,
// creating outputDir if needed. Existing files with the same name are replaced.
// The archive is not validated beforehand; a corrupt archive fails here.
func Zip(archivePath, outputDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil { //nolint:gosec // bin directories are world-readable
		return fmt.Errorf("creating output dir %s: %w", outputDir, err)
	}

	logger.Debug("extracting zip archive", "archive", archivePath, "dest", outputDir)

	d := &getter.ZipDecompressor{}
	if err := d.Decompress(outputDir, archivePath, true, 0); err != nil {
		return fmt.Errorf("extracting %s: %w", archivePath, err)
	}

	return nil
}

// ExecutablePath returns where the platform's executable lands in outputDir.
func ExecutablePath(outputDir string, p platform.Platform) string {
	return filepath.Join(outputDir, p.ExecutableName())
}

// FinalizePermissions marks the extracted executable rwxr-xr-x. Windows builds
// are left untouched since that filesystem has no unix mode bits.
func FinalizePermissions(outputDir string, p platform.Platform) error {
	if !p.UnixPermissions() {
		return nil
	}

	path := ExecutablePath(outputDir, p)
	if err := os.Chmod(path, ExecutableMode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}

	return nil
}
