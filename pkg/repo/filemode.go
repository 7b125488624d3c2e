package repo

import (
	"fmt"
	"os"
)

// modeFromFileInfo renders a regular file's tree mode: "100" followed by its
// three octal permission digits.
func modeFromFileInfo(info os.FileInfo) string {
	return fmt.Sprintf("100%03o", info.Mode().Perm())
}
