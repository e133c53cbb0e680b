// Package platform identifies the ChromeDriver build target for a host.
package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// ErrUnknown is returned when the host operating system has no matching build.
var ErrUnknown = errors.New("unknown platform")

// Platform is a ChromeDriver build target.
type Platform string

// Supported build targets.
const (
	Linux32 Platform = "linux32"
	Linux64 Platform = "linux64"
	Mac64   Platform = "mac64"
	Win32   Platform = "win32"
)

// descriptor holds the per-platform naming used for downloads and installs.
type descriptor struct {
	archiveSuffix  string
	executableName string
	displayName    string
}

// order is the stable listing order used by All and the selection prompt.
var order = []Platform{Linux32, Linux64, Mac64, Win32}

var table = map[Platform]descriptor{
	Linux32: {archiveSuffix: "linux32", executableName: "chromedriver", displayName: "Linux 32Bits"},
	Linux64: {archiveSuffix: "linux64", executableName: "chromedriver", displayName: "Linux 64Bits"},
	Mac64:   {archiveSuffix: "mac64", executableName: "chromedriver", displayName: "Mac OS X"},
	Win32:   {archiveSuffix: "win32", executableName: "chromedriver.exe", displayName: "Windows"},
}

// All returns every supported platform in display order.
func All() []Platform {
	out := make([]Platform, len(order))
	copy(out, order)

	return out
}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	_, ok := table[p]
	return ok
}

// ArchiveSuffix returns the suffix used in the remote archive name (e.g. "linux64").
func (p Platform) ArchiveSuffix() string {
	return table[p].archiveSuffix
}

// ArchiveName returns the remote archive file name, e.g. "chromedriver_linux64.zip".
func (p Platform) ArchiveName() string {
	return "chromedriver_" + p.ArchiveSuffix() + ".zip"
}

// ExecutableName returns the name of the binary inside the archive.
func (p Platform) ExecutableName() string {
	return table[p].executableName
}

// DisplayName returns the human-readable name shown in prompts and status lines.
func (p Platform) DisplayName() string {
	return table[p].displayName
}

// UnixPermissions reports whether the platform models unix mode bits.
func (p Platform) UnixPermissions() bool {
	return p != Win32
}

func (p Platform) String() string {
	return string(p)
}

// Parse accepts a platform id ("linux64") or its display name ("Linux 64Bits"),
// case-insensitively.
func Parse(s string) (Platform, error) {
	s = strings.TrimSpace(s)

	for _, p := range order {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, table[p].displayName) {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %q, must be one of: %s", ErrUnknown, s, joinIDs())
}

// Detect maps an operating system name and integer width to a platform.
// Matching is a case-insensitive prefix match on the OS name; linux additionally
// branches on intSize (64 selects the 64-bit build, anything else the 32-bit one).
func Detect(osName string, intSize int) (Platform, error) {
	lower := strings.ToLower(osName)

	switch {
	case strings.HasPrefix(lower, "win"):
		return Win32, nil
	case strings.HasPrefix(lower, "darwin"):
		return Mac64, nil
	case strings.HasPrefix(lower, "linux"):
		if intSize == 64 {
			return Linux64, nil
		}

		return Linux32, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknown, osName)
	}
}

// DetectHost detects the platform of the running process.
func DetectHost() (Platform, error) {
	return Detect(runtime.GOOS, strconv.IntSize)
}

// SelectFn lets a caller override the detected platform, typically by asking
// the user. It receives the detected guess and the full list of choices.
type SelectFn func(detected Platform, choices []Platform) (Platform, error)

// Choose returns the platform to install. The detected value is used as-is when
// bypass is set or no selector is given; otherwise sel decides.
func Choose(detected Platform, bypass bool, sel SelectFn) (Platform, error) {
	if bypass || sel == nil {
		return detected, nil
	}

	chosen, err := sel(detected, All())
	if err != nil {
		return "", fmt.Errorf("selecting platform: %w", err)
	}

	if !chosen.Valid() {
		return "", fmt.Errorf("%w: selected %q", ErrUnknown, chosen)
	}

	return chosen, nil
}

func joinIDs() string {
	ids := make([]string, 0, len(order))
	for _, p := range order {
		ids = append(ids, string(p))
	}

	return strings.Join(ids, ", ")
}
