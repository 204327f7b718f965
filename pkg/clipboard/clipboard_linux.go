//go:build linux

package clipboard

import "syscall"

// The helper gets its own process group so a Ctrl-C aimed at the
// foreground command does not interrupt a write in progress.
func helperSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
