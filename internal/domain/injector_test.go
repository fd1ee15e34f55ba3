package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/symup/symup/internal/model"
)

const testID = m.SourceMapID("0123abcd-0123-4567-89ab-0123456789ab")

func readFile(t *testing.T, path m.Path) string {
	t.Helper()

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)

	return string(data)
}

func markerCount(content string) int {
	count := 0

	for _, line := range strings.Split(content, "\n") {
		if IsMarkerLine(line) {
			count++
		}
	}

	return count
}

func TestInjectMarker_AppendsWhenNoDirective(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;\nvar b=2;\n")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))

	content := readFile(t, js)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	require.Equal(t, "var a=1;", lines[0])
	require.Equal(t, "var b=2;", lines[1])
	require.Equal(t, MarkerLine(testID), lines[len(lines)-1])
	require.Equal(t, 1, markerCount(content))
	require.True(t, strings.HasSuffix(content, "\n"))
}

func TestInjectMarker_InsertsBeforeDirective(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;\n//# sourceMappingURL=app.js.map\n")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))

	lines := strings.Split(strings.TrimSuffix(readFile(t, js), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "var a=1;", lines[0])
	require.Equal(t, MarkerLine(testID), lines[1])

	// The directive line itself is never altered.
	require.Equal(t, "//# sourceMappingURL=app.js.map", lines[2])
}

func TestInjectMarker_ReplacesStaleMarker(t *testing.T) {
	dir := t.TempDir()
	staleID := m.SourceMapID("ffffffff-ffff-ffff-ffff-ffffffffffff")
	js := writeFixture(t, dir, "app.js",
		"var a=1;\n"+MarkerLine(staleID)+"\n//# sourceMappingURL=app.js.map\n")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))

	content := readFile(t, js)
	require.Equal(t, 1, markerCount(content))
	require.Contains(t, content, string(testID))
	require.NotContains(t, content, string(staleID))
}

func TestInjectMarker_Idempotent(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;\n//# sourceMappingURL=app.js.map\n")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))
	afterFirst := readFile(t, js)

	// A read-only directory would make any staging write fail, so a nil
	// error here proves the second run performed zero filesystem writes.
	require.NoError(t, os.Chmod(dir, 0o500))

	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o750)
	})

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))
	require.Equal(t, afterFirst, readFile(t, js))
	require.Equal(t, 1, markerCount(afterFirst))
}

func TestInjectMarker_DryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;\n")
	before := readFile(t, js)

	var previewed []m.Path

	err := InjectMarker(js, testID, InjectOptions{
		DryRun: true,
		Preview: func(path m.Path, id m.SourceMapID) {
			previewed = append(previewed, path)
			require.Equal(t, testID, id)
		},
	})
	require.NoError(t, err)

	require.Equal(t, before, readFile(t, js))
	require.Equal(t, []m.Path{js}, previewed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestInjectMarker_PreservesMissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))

	content := readFile(t, js)
	require.Equal(t, "var a=1;\n"+MarkerLine(testID), content)
}

func TestInjectMarker_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	js := writeFixture(t, dir, "app.js", "var a=1;\n")

	require.NoError(t, InjectMarker(js, testID, InjectOptions{}))

	_, err := os.Stat(string(TempPathFor(js)))
	require.True(t, os.IsNotExist(err))
}

func TestInjectMarker_ReadError(t *testing.T) {
	js := m.Path(filepath.Join(t.TempDir(), "missing.js"))

	err := InjectMarker(js, testID, InjectOptions{})
	require.Error(t, err)

	var fsErr *FSError
	require.ErrorAs(t, err, &fsErr)
	require.Equal(t, OpRead, fsErr.Op)
}

func TestTempPathFor_DerivedFromBasename(t *testing.T) {
	tmp := TempPathFor(m.Path("dist/assets/app.js"))
	require.Equal(t, m.Path(filepath.Join("dist", "assets", "app.js"+TempFileSuffix)), tmp)
}
