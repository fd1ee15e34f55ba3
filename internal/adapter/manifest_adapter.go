package adapter

import (
	"fmt"

	"github.com/beevik/etree"
	m "github.com/symup/symup/internal/model"
)

// AppInfo holds the application identity fields read from an
// AndroidManifest.xml.
type AppInfo struct {
	ApplicationID string
	VersionCode   string
	VersionName   string
}

// ManifestAdapter extracts application identity from Android manifests so
// the upload command can default its flags from the build output.
type ManifestAdapter interface {
	ParseAppInfo(path m.Path) (AppInfo, error)
}

// EtreeManifestAdapter reads manifests with etree.
type EtreeManifestAdapter struct{}

// NewEtreeManifestAdapter constructs an EtreeManifestAdapter.
func NewEtreeManifestAdapter() *EtreeManifestAdapter {
	return &EtreeManifestAdapter{}
}

// ParseAppInfo reads the package and version attributes off the manifest
// root element.
func (a *EtreeManifestAdapter) ParseAppInfo(path m.Path) (AppInfo, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(string(path)); err != nil {
		return AppInfo{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	root := doc.SelectElement("manifest")
	if root == nil {
		return AppInfo{}, fmt.Errorf("manifest %s: no <manifest> root element", path)
	}

	info := AppInfo{
		ApplicationID: root.SelectAttrValue("package", ""),
		VersionCode:   root.SelectAttrValue("android:versionCode", ""),
		VersionName:   root.SelectAttrValue("android:versionName", ""),
	}

	if info.ApplicationID == "" {
		return AppInfo{}, fmt.Errorf("manifest %s: missing package attribute", path)
	}

	return info, nil
}
