//go:build !windows

package validation

import "syscall"

// getDiskSpace returns total and free bytes via statfs. Free counts only
// blocks available to unprivileged users.
func getDiskSpace(path string) (total int64, free int64, err error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	return int64(stat.Blocks) * int64(stat.Bsize), int64(stat.Bavail) * int64(stat.Bsize), nil
}
