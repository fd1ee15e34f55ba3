package adapter

import (
	"os"
	"path/filepath"
	"testing"

	m "github.com/symup/symup/internal/model"
)

func TestLocalSourceFSAdapter_ListFiles(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "main.js"), "x;\n")
	writeTestFile(t, filepath.Join(root, "main.js.map"), "{}\n")

	nestedDir := filepath.Join(root, "static", "js")
	mustMkdirAll(t, nestedDir)
	writeTestFile(t, filepath.Join(nestedDir, "vendor.js"), "y;\n")

	t.Run("empty include lists everything", func(t *testing.T) {
		files, err := adapter.ListFiles(m.Path(root), nil, nil)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}

		if len(files) != 3 {
			t.Fatalf("ListFiles() returned %d files, want 3", len(files))
		}
	})

	t.Run("include globs match base names", func(t *testing.T) {
		files, err := adapter.ListFiles(m.Path(root), []string{"*.js"}, nil)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}

		want := []string{
			filepath.Join(root, "main.js"),
			filepath.Join(nestedDir, "vendor.js"),
		}

		if len(files) != len(want) {
			t.Fatalf("ListFiles() returned %d files, want %d: %v", len(files), len(want), files)
		}

		for _, p := range want {
			if !containsPath(files, p) {
				t.Fatalf("ListFiles() missing %s", p)
			}
		}
	})

	t.Run("include globs match relative paths", func(t *testing.T) {
		files, err := adapter.ListFiles(m.Path(root), []string{"static/js/*"}, nil)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}

		if len(files) != 1 || string(files[0]) != filepath.Join(nestedDir, "vendor.js") {
			t.Fatalf("ListFiles() = %v, want only nested vendor.js", files)
		}
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		files, err := adapter.ListFiles(m.Path(root), []string{"*.js"}, []string{"vendor.js"})
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}

		if len(files) != 1 || string(files[0]) != filepath.Join(root, "main.js") {
			t.Fatalf("ListFiles() = %v, want only main.js", files)
		}
	})
}

func TestLocalSourceFSAdapter_ListFiles_SkipsDependencyDirs(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "app.js"), "x;\n")

	for _, dir := range []string{"node_modules", ".git", "vendor", "bower_components"} {
		skipped := filepath.Join(root, dir, "pkg")
		mustMkdirAll(t, skipped)
		writeTestFile(t, filepath.Join(skipped, "dep.js"), "z;\n")
	}

	files, err := adapter.ListFiles(m.Path(root), []string{"*.js"}, nil)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	if len(files) != 1 || string(files[0]) != filepath.Join(root, "app.js") {
		t.Fatalf("ListFiles() = %v, want only app.js outside dependency dirs", files)
	}
}

func TestLocalSourceFSAdapter_ListFiles_MissingRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	if _, err := adapter.ListFiles(m.Path(filepath.Join(t.TempDir(), "absent")), nil, nil); err == nil {
		t.Fatalf("ListFiles() expected error for missing root")
	}
}

func TestLocalSourceFSAdapter_ListDirsBySuffix(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	appBundle := filepath.Join(root, "App.dSYM")
	mustMkdirAll(t, filepath.Join(appBundle, "Contents"))
	writeTestFile(t, filepath.Join(appBundle, "Contents", "Info.plist"), "<plist/>\n")

	// Bundles nested inside a bundle must not be listed twice.
	mustMkdirAll(t, filepath.Join(appBundle, "Inner.dSYM"))

	widgetBundle := filepath.Join(root, "out", "Widget.dSYM")
	mustMkdirAll(t, widgetBundle)
	mustMkdirAll(t, filepath.Join(root, "plain"))

	dirs, err := adapter.ListDirsBySuffix(m.Path(root), ".dSYM")
	if err != nil {
		t.Fatalf("ListDirsBySuffix() error = %v", err)
	}

	if len(dirs) != 2 {
		t.Fatalf("ListDirsBySuffix() = %v, want exactly App.dSYM and Widget.dSYM", dirs)
	}

	for _, want := range []string{appBundle, widgetBundle} {
		if !containsPath(dirs, want) {
			t.Fatalf("ListDirsBySuffix() missing %s", want)
		}
	}
}

func TestLocalSourceFSAdapter_RemoveFilesBySuffix(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	keep := filepath.Join(root, "main.js")
	writeTestFile(t, keep, "x;\n")
	writeTestFile(t, filepath.Join(root, "main.js.symup-tmp"), "partial\n")

	nested := filepath.Join(root, "static")
	mustMkdirAll(t, nested)
	writeTestFile(t, filepath.Join(nested, "vendor.js.symup-tmp"), "partial\n")

	removed, err := adapter.RemoveFilesBySuffix(m.Path(root), ".symup-tmp")
	if err != nil {
		t.Fatalf("RemoveFilesBySuffix() error = %v", err)
	}

	if removed != 2 {
		t.Fatalf("RemoveFilesBySuffix() removed %d files, want 2", removed)
	}

	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("RemoveFilesBySuffix() removed unrelated file: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "main.js.symup-tmp")); !os.IsNotExist(err) {
		t.Fatalf("RemoveFilesBySuffix() left staging file behind, stat err=%v", err)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "app.js")
	writeTestFile(t, path, "x;\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []m.Path, target string) bool {
	for _, p := range paths {
		if string(p) == target {
			return true
		}
	}

	return false
}
