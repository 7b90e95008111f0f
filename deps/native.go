package deps

// defaultNativeModules lists npm packages known to ship platform-specific
// compiled addons. Bundling a native binary breaks portability, so these are
// always kept external to the bundle and installed at runtime instead. The
// list is injectable per Resolver (WithNativeModules); this is the default.
var defaultNativeModules = []string{
	"@swc/core",
	"bcrypt",
	"better-sqlite3",
	"bufferutil",
	"canvas",
	"cpu-features",
	"esbuild",
	"fsevents",
	"keytar",
	"leveldown",
	"node-pty",
	"re2",
	"serialport",
	"sharp",
	"sqlite3",
	"ssh2",
	"utf-8-validate",
}

// DefaultNativeModules returns a copy of the built-in native-module list.
func DefaultNativeModules() []string {
	out := make([]string, len(defaultNativeModules))
	copy(out, defaultNativeModules)
	return out
}
