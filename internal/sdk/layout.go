package sdk

import (
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// sdkManagerPaths are the locations of sdkmanager relative to the SDK root,
// newest layout first.
var sdkManagerPaths = []string{
	"cmdline-tools/latest/bin/sdkmanager",
	"tools/bin/sdkmanager",
}

// legacyToolPath is the pre-sdkmanager "android" tool.
const legacyToolPath = "tools/android"

// Tool is an SDK management executable found under an SDK root.
type Tool struct {
	Path string

	// Legacy is set for the old "android" tool, which takes different arguments.
	Legacy bool
}

// FindTool returns the SDK management tool under root, preferring sdkmanager.
func FindTool(fs afero.Fs, root string) (Tool, bool) {
	for _, rel := range sdkManagerPaths {
		p := executable(filepath.Join(root, filepath.FromSlash(rel)))
		if isFile(fs, p) {
			return Tool{Path: p}, true
		}
	}
	p := executable(filepath.Join(root, filepath.FromSlash(legacyToolPath)))
	if isFile(fs, p) {
		return Tool{Path: p, Legacy: true}, true
	}
	return Tool{}, false
}

// IsSDK reports whether dir looks like an Android SDK root.
func IsSDK(fs afero.Fs, dir string) bool {
	if dir == "" || !isDir(fs, dir) {
		return false
	}
	_, ok := FindTool(fs, dir)
	return ok
}

// Package is an installable SDK component.
type Package struct {
	// Path is the sdkmanager package path, e.g. "platforms;android-19".
	Path string

	// Dir is where the package lands, relative to the SDK root.
	Dir string
}

// ID is the package identifier understood by the legacy android tool.
func (p Package) ID() string {
	if i := strings.LastIndexByte(p.Path, ';'); i >= 0 {
		return p.Path[i+1:]
	}
	return p.Path
}

// PlatformPackages returns the packages a project target needs.
//
// "android-N" maps to platforms;android-N. Add-on targets of the form
// "Vendor:Name:API" need the base platform and the add-on itself, e.g.
// "Google Inc.:Google APIs:19" maps to platforms;android-19 and
// add-ons;addon-google_apis-google-19. Identifiers containing ';' are taken
// as sdkmanager package paths.
func PlatformPackages(platform string) []Package {
	if strings.Contains(platform, ";") {
		return []Package{{Path: platform, Dir: strings.ReplaceAll(platform, ";", "/")}}
	}
	if vendor, name, api, ok := parseAddOn(platform); ok {
		addon := "addon-" + name + "-" + vendor + "-" + api
		return []Package{
			platformPackage("android-" + api),
			{Path: "add-ons;" + addon, Dir: "add-ons/" + addon},
		}
	}
	return []Package{platformPackage(platform)}
}

func platformPackage(id string) Package {
	return Package{Path: "platforms;" + id, Dir: "platforms/" + id}
}

// parseAddOn splits an add-on target into its sdkmanager id parts.
func parseAddOn(target string) (vendor, name, api string, ok bool) {
	parts := strings.Split(target, ":")
	if len(parts) != 3 {
		return "", "", "", false
	}
	vendor = addOnID(strings.Fields(parts[0]))
	name = addOnID(strings.Fields(parts[1]))
	api = strings.TrimSpace(parts[2])
	if vendor == "" || name == "" || api == "" {
		return "", "", "", false
	}
	return vendor, name, api, true
}

// addOnID lowercases words and joins them with '_', dropping punctuation.
// Company suffixes such as "Inc." are dropped from vendor names.
func addOnID(words []string) string {
	var out []string
	for _, w := range words {
		w = strings.ToLower(strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w))
		switch w {
		case "", "inc", "llc", "ltd", "corp", "corporation":
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, "_")
}

// PackageDir returns where pkg is installed inside the SDK.
func (s *SDK) PackageDir(pkg Package) string {
	return filepath.Join(s.Root, filepath.FromSlash(pkg.Dir))
}

// MissingPackages returns the packages of platform not yet in the SDK.
func (s *SDK) MissingPackages(fs afero.Fs, platform string) []Package {
	var missing []Package
	for _, pkg := range PlatformPackages(platform) {
		if !isDir(fs, s.PackageDir(pkg)) {
			missing = append(missing, pkg)
		}
	}
	return missing
}

// PlatformInstalled reports whether every package platform needs exists in
// the SDK.
func (s *SDK) PlatformInstalled(fs afero.Fs, platform string) bool {
	return len(s.MissingPackages(fs, platform)) == 0
}

func executable(p string) string {
	if runtime.GOOS == "windows" {
		return p + ".bat"
	}
	return p
}

func isDir(fs afero.Fs, p string) bool {
	ok, err := afero.DirExists(fs, p)
	return err == nil && ok
}

func isFile(fs afero.Fs, p string) bool {
	info, err := fs.Stat(p)
	return err == nil && !info.IsDir()
}
