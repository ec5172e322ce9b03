package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"hashart/core"
	"hashart/render"
)

// DiskSpaceInfo describes the filesystem holding a path.
type DiskSpaceInfo struct {
	Path  string
	Total int64
	Free  int64
}

// DiskSpaceError indicates there is not enough room for a render.
type DiskSpaceError struct {
	Path      string
	Required  int64
	Available int64
}

func (e *DiskSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space at %s: need %s, have %s free",
		e.Path, core.FormatBytes(e.Required), core.FormatBytes(e.Available))
}

// GetDiskSpace reports space for the filesystem containing path, walking up
// to the nearest existing parent.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if parent := filepath.Dir(path); parent != path {
				return GetDiskSpace(parent)
			}
		}
		return nil, fmt.Errorf("cannot access path %s: %w", path, err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	total, free, err := getDiskSpace(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk space for %s: %w", path, err)
	}
	return &DiskSpaceInfo{Path: path, Total: total, Free: free}, nil
}

// EstimateRenderBytes is a generous upper bound on one render's output:
// uncompressed RGBA for PNG plus the thumbnail, or a fixed budget for SVG.
func EstimateRenderBytes(width, height, thumbnail int, format render.Format) int64 {
	if format == render.FormatSVG {
		return 64 * core.BytesPerKB
	}
	return int64(width)*int64(height)*4 + int64(thumbnail)*int64(thumbnail)*4
}

// CheckDiskSpace fails when path has less than required bytes free.
func CheckDiskSpace(path string, required int64) CheckResult {
	info, err := GetDiskSpace(path)
	if err != nil {
		return warning("could not determine free space: %v", err)
	}
	if info.Free < required {
		return failed(&DiskSpaceError{Path: info.Path, Required: required, Available: info.Free})
	}
	return passed("%s free, %s per render", core.FormatBytes(info.Free), core.FormatBytes(required))
}
