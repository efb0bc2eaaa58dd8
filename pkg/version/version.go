package version

import "fmt"

// Tool is the tool identity written into benchmark records.
const Tool = "coredead"

// Version indicates what release of coredead the binary belongs to
var Version string

// GitCommit indicates which git commit the binary was built from
var GitCommit string

// String returns a pretty string concatenation of Version and GitCommit
func String() string {
	return fmt.Sprintf("coredead version: %s\n      git commit: %s\n", Version, GitCommit)
}
