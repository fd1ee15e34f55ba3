package adapter

import (
	"path/filepath"
	"testing"

	m "github.com/symup/symup/internal/model"
)

func TestEtreeManifestAdapter_ParseAppInfo(t *testing.T) {
	adapter := NewEtreeManifestAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "AndroidManifest.xml")
	writeTestFile(t, path, `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.shop.app"
    android:versionCode="42"
    android:versionName="2.1.0">
    <application android:label="Shop"/>
</manifest>
`)

	info, err := adapter.ParseAppInfo(m.Path(path))
	if err != nil {
		t.Fatalf("ParseAppInfo() error = %v", err)
	}

	if info.ApplicationID != "com.shop.app" {
		t.Fatalf("ParseAppInfo() applicationID = %s, want com.shop.app", info.ApplicationID)
	}

	if info.VersionCode != "42" || info.VersionName != "2.1.0" {
		t.Fatalf("ParseAppInfo() versions = %s/%s, want 42/2.1.0", info.VersionCode, info.VersionName)
	}
}

func TestEtreeManifestAdapter_ParseAppInfo_MissingVersionsAreEmpty(t *testing.T) {
	adapter := NewEtreeManifestAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "AndroidManifest.xml")
	writeTestFile(t, path, `<manifest package="com.shop.app"/>`)

	info, err := adapter.ParseAppInfo(m.Path(path))
	if err != nil {
		t.Fatalf("ParseAppInfo() error = %v", err)
	}

	if info.VersionCode != "" || info.VersionName != "" {
		t.Fatalf("ParseAppInfo() versions = %s/%s, want empty", info.VersionCode, info.VersionName)
	}
}

func TestEtreeManifestAdapter_ParseAppInfo_Errors(t *testing.T) {
	adapter := NewEtreeManifestAdapter()
	root := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := adapter.ParseAppInfo(m.Path(filepath.Join(root, "absent.xml"))); err == nil {
			t.Fatalf("ParseAppInfo() expected error for missing file")
		}
	})

	t.Run("no manifest root", func(t *testing.T) {
		path := filepath.Join(root, "wrong-root.xml")
		writeTestFile(t, path, `<resources/>`)

		if _, err := adapter.ParseAppInfo(m.Path(path)); err == nil {
			t.Fatalf("ParseAppInfo() expected error for missing <manifest> root")
		}
	})

	t.Run("missing package attribute", func(t *testing.T) {
		path := filepath.Join(root, "no-package.xml")
		writeTestFile(t, path, `<manifest android:versionName="1.0"/>`)

		if _, err := adapter.ParseAppInfo(m.Path(path)); err == nil {
			t.Fatalf("ParseAppInfo() expected error for missing package attribute")
		}
	})
}
