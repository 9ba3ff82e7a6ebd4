package buildconfig

// overridden at build time via -ldflags
var (
	version = "snapshot"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}
