package fs

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// NewFilesystem returns the host filesystem. Paths are used as given, rooted at "/".
func NewFilesystem() billy.Filesystem {
	return osfs.New("/")
}
