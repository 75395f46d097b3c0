// Package patch rewrites the AssemblyVersion declaration inside project
// configuration files.
//
// The files are treated as plain line-oriented text, never parsed as XML:
// the patcher replaces a single line and leaves every other byte untouched,
// including indentation and line terminators.
package patch

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	bperrors "git.home.luguber.info/inful/buildprep/internal/errors"
	"git.home.luguber.info/inful/buildprep/internal/layout"
	"git.home.luguber.info/inful/buildprep/internal/logfields"
)

// assemblyVersionTag is the substring that marks a version declaration line.
const assemblyVersionTag = "<AssemblyVersion>"

// ErrTagNotFound reports a project file without an AssemblyVersion line.
// Callers treat it as a per-file warning, not a fatal failure.
var ErrTagNotFound = stdErrors.New("no AssemblyVersion line found")

// SetAssemblyVersion replaces the version declaration in the file at path.
//
// The last line containing the tag wins when several are present, and the
// replacement happens at that line's position. The matched line's leading
// whitespace (everything before the first '<') and its own terminator are
// preserved on the new line.
func SetAssemblyVersion(path string, version VersionString) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat project file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read project file: %w", err)
	}

	lines := splitLines(data)

	matched := -1
	for i, line := range lines {
		if strings.Contains(line, assemblyVersionTag) {
			matched = i
		}
	}
	if matched == -1 {
		return fmt.Errorf("%w in %s", ErrTagNotFound, path)
	}

	line := lines[matched]
	leading := line[:strings.Index(line, "<")]
	lines[matched] = leading + assemblyVersionTag + version.String() + "</AssemblyVersion>" + terminatorOf(line)

	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// PatchAll rewrites the version declaration in every project file. A file
// without the tag is skipped with a warning; read or write failures are fatal.
func PatchAll(projects []layout.ProjectPaths, version VersionString) error {
	for _, project := range projects {
		err := SetAssemblyVersion(project.ProjectFile, version)
		if stdErrors.Is(err, ErrTagNotFound) {
			slog.Warn("Could not find AssemblyVersion line, leaving file untouched",
				logfields.Project(project.Name), logfields.File(project.ProjectFile))
			continue
		}
		if err != nil {
			return bperrors.PatchError(project.ProjectFile, err)
		}
		slog.Debug("Version set", logfields.Project(project.Name),
			logfields.File(project.ProjectFile), logfields.Version(version.String()))
	}
	return nil
}

// splitLines splits data into lines, each keeping its own terminator. A final
// line without a trailing newline is kept as-is.
func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i+1]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// terminatorOf returns the line's own terminator: CRLF, LF, or none.
func terminatorOf(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}
