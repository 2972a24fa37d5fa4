// Package perms holds the file and directory modes nember creates files with.
package perms

import "os"

const (
	// RegularFile is used for configuration skeletons and log files.
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644

	// RegularDir is used for directories holding configuration and log files.
	// Mode 0755: owner read/write/execute, group read/execute, others read/execute.
	RegularDir os.FileMode = 0o755
)
