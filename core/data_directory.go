package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in data directory paths.
const AppName = "hashart"

// GetDataDirectory returns where hashart keeps its history database.
//
// Paths by platform:
//   - Windows: %APPDATA%\hashart
//   - Linux/macOS: ~/.hashart
//
// Does NOT create the directory; see EnsureDataDirectory.
func GetDataDirectory() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return AppName
		}
		return filepath.Join(home, "AppData", "Roaming", AppName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, "."+AppName)
}

// GetDataFilePath returns the full path for a file within the data directory.
// Example: GetDataFilePath("history.db") -> "/home/user/.hashart/history.db"
func GetDataFilePath(filename string) string {
	return filepath.Join(GetDataDirectory(), filename)
}

// EnsureDataDirectory creates the data directory if it doesn't exist.
func EnsureDataDirectory() (string, error) {
	dir := GetDataDirectory()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
