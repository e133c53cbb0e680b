package installer

import (
	"errors"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
)

// Failure classes of an install run, matched with errors.Is.
var (
	// ErrUnknownPlatform from detection aborts Install with a warning instead of an
	// error. It is only returned when the selector picks an unsupported platform.
	ErrUnknownPlatform   = platform.ErrUnknown
	ErrVersionResolution = errors.New("version resolution failed")
	ErrNetwork           = errors.New("download failed")
	ErrExtraction        = errors.New("extraction failed")
	ErrPermission        = errors.New("setting executable permissions failed")
)
