package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buildprep/internal/errors"
	"git.home.luguber.info/inful/buildprep/internal/layout"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ColorSelector.csproj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"1.0.0", true},
		{"2.1.3", true},
		{"10.20.30", true},
		// Components are not checked further, only the count matters.
		{"a.b.c", true},
		{"1..3", true},
		{"", false},
		{"1", false},
		{"1.2", false},
		{"1.2.3.4", false},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			v, err := ParseVersion(test.raw)
			if test.valid {
				require.NoError(t, err)
				assert.Equal(t, test.raw, v.String())
			} else {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
			}
		})
	}
}

func TestSetAssemblyVersion(t *testing.T) {
	content := "<Project Sdk=\"Microsoft.NET.Sdk\">\n" +
		"  <PropertyGroup>\n" +
		"    <TargetFramework>net8.0</TargetFramework>\n" +
		"    <AssemblyVersion>1.0.0</AssemblyVersion>\n" +
		"  </PropertyGroup>\n" +
		"</Project>\n"
	path := writeProjectFile(t, content)

	v, err := ParseVersion("2.1.3")
	require.NoError(t, err)
	require.NoError(t, SetAssemblyVersion(path, v))

	want := "<Project Sdk=\"Microsoft.NET.Sdk\">\n" +
		"  <PropertyGroup>\n" +
		"    <TargetFramework>net8.0</TargetFramework>\n" +
		"    <AssemblyVersion>2.1.3</AssemblyVersion>\n" +
		"  </PropertyGroup>\n" +
		"</Project>\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestSetAssemblyVersionPreservesCRLF(t *testing.T) {
	content := "<PropertyGroup>\r\n" +
		"\t<AssemblyVersion>1.0.0</AssemblyVersion>\r\n" +
		"</PropertyGroup>\r\n"
	path := writeProjectFile(t, content)

	v, _ := ParseVersion("3.0.1")
	require.NoError(t, SetAssemblyVersion(path, v))

	want := "<PropertyGroup>\r\n" +
		"\t<AssemblyVersion>3.0.1</AssemblyVersion>\r\n" +
		"</PropertyGroup>\r\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestSetAssemblyVersionLastMatchWins(t *testing.T) {
	content := "  <AssemblyVersion>1.0.0</AssemblyVersion>\n" +
		"<Other/>\n" +
		"        <AssemblyVersion>1.0.1</AssemblyVersion>\n"
	path := writeProjectFile(t, content)

	v, _ := ParseVersion("2.0.0")
	require.NoError(t, SetAssemblyVersion(path, v))

	// The last occurrence is replaced in place with its own indentation;
	// earlier occurrences are left alone.
	want := "  <AssemblyVersion>1.0.0</AssemblyVersion>\n" +
		"<Other/>\n" +
		"        <AssemblyVersion>2.0.0</AssemblyVersion>\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestSetAssemblyVersionDuplicateIdenticalLines(t *testing.T) {
	// Byte-identical duplicates: replacement happens at the last position,
	// not at the first value-equal line.
	content := "    <AssemblyVersion>1.0.0</AssemblyVersion>\n" +
		"    <AssemblyVersion>1.0.0</AssemblyVersion>\n"
	path := writeProjectFile(t, content)

	v, _ := ParseVersion("9.9.9")
	require.NoError(t, SetAssemblyVersion(path, v))

	want := "    <AssemblyVersion>1.0.0</AssemblyVersion>\n" +
		"    <AssemblyVersion>9.9.9</AssemblyVersion>\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestSetAssemblyVersionNoTrailingNewline(t *testing.T) {
	content := "    <AssemblyVersion>1.0.0</AssemblyVersion>"
	path := writeProjectFile(t, content)

	v, _ := ParseVersion("2.0.0")
	require.NoError(t, SetAssemblyVersion(path, v))

	assert.Equal(t, "    <AssemblyVersion>2.0.0</AssemblyVersion>", readFile(t, path))
}

func TestSetAssemblyVersionTagMissing(t *testing.T) {
	content := "<Project>\n  <PropertyGroup/>\n</Project>\n"
	path := writeProjectFile(t, content)

	v, _ := ParseVersion("2.0.0")
	err := SetAssemblyVersion(path, v)
	require.ErrorIs(t, err, ErrTagNotFound)
	assert.Contains(t, err.Error(), path)

	// File must be byte-identical.
	assert.Equal(t, content, readFile(t, path))
}

func TestPatchAllSkipsFilesWithoutTag(t *testing.T) {
	withTag := writeProjectFile(t, "  <AssemblyVersion>1.0.0</AssemblyVersion>\n")
	withoutTag := writeProjectFile(t, "<Project/>\n")

	projects := []layout.ProjectPaths{
		{Name: "ColorSelector", ProjectFile: withTag},
		{Name: "ColorSelectorStandalone", ProjectFile: withoutTag},
	}

	v, _ := ParseVersion("2.1.3")
	require.NoError(t, PatchAll(projects, v))

	assert.Equal(t, "  <AssemblyVersion>2.1.3</AssemblyVersion>\n", readFile(t, withTag))
	assert.Equal(t, "<Project/>\n", readFile(t, withoutTag))
}

func TestPatchAllReadFailureIsFatal(t *testing.T) {
	projects := []layout.ProjectPaths{
		{Name: "Missing", ProjectFile: filepath.Join(t.TempDir(), "gone.csproj")},
	}

	v, _ := ParseVersion("2.1.3")
	err := PatchAll(projects, v)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryPatch))
}
