package common

import "os"

const (
	// ExecutableMode is applied to every generated program and launcher.
	ExecutableMode os.FileMode = 0o755

	// DirMode is used for generated output directories.
	DirMode os.FileMode = 0o755
)
