//go:build !linux

package clipboard

import "syscall"

func helperSysProcAttr() *syscall.SysProcAttr {
	return nil
}
