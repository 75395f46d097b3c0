package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject = "project"
	KeyPath    = "path"
	KeyFile    = "file"
	KeyVersion = "version"
	KeyAttempt = "attempt"
	KeyAnchor  = "anchor"
	KeyRoot    = "root"
	KeyDelay   = "delay"
	KeyError   = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Project(name string) slog.Attr { return slog.String(KeyProject, name) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func File(f string) slog.Attr       { return slog.String(KeyFile, f) }
func Version(v string) slog.Attr    { return slog.String(KeyVersion, v) }
func Attempt(n int) slog.Attr       { return slog.Int(KeyAttempt, n) }
func Anchor(a string) slog.Attr     { return slog.String(KeyAnchor, a) }
func Root(r string) slog.Attr       { return slog.String(KeyRoot, r) }
func Delay(d string) slog.Attr      { return slog.String(KeyDelay, d) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
