package glshim

// Environment variables inspected by ConfigFromEnv.
const (
	EnvDump         = "LIBGL_VGPU_DUMP"
	EnvAbortOnError = "LIBGL_VGPU_ABORT_ON_ERROR"
)

// Config holds the diagnostic toggles an interception layer reads from its
// environment. None of them changes the translated output.
type Config struct {
	// Dump logs shader sources before and after translation.
	Dump bool
	// AbortOnError turns driver link failures into errors.
	AbortOnError bool
}

// ConfigFromEnv reads Config using lookup, typically os.LookupEnv.
// A toggle is enabled only by the exact value "1".
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	on := func(key string) bool {
		v, ok := lookup(key)
		return ok && v == "1"
	}
	return Config{
		Dump:         on(EnvDump),
		AbortOnError: on(EnvAbortOnError),
	}
}
