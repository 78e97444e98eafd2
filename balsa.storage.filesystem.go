package balsa

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot    = "storage root directory is required"
	ErrMsgCreateStorageDir      = "failed to create storage directory"
	ErrMsgReadStorageDir        = "failed to read storage directory"
	ErrMsgMarshalTemplate       = "failed to encode template"
	ErrMsgUnmarshalTemplate     = "failed to decode template"
	ErrMsgWriteTemplate         = "failed to write template"
	ErrMsgReadTemplate          = "failed to read template"
	ErrMsgDeleteTemplate        = "failed to delete template"
	ErrMsgPathTraversalDetected = "template name escapes storage root"
)

// FilesystemStorage stores templates as JSON files, one file per version.
//
// Directory structure:
//
//	<root>/
//	  <template-name>/
//	    v1.json
//	    v2.json
type FilesystemStorage struct {
	versionedStore
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based template storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}

	return &FilesystemStorage{
		versionedStore: versionedStore{backend: fileVersions(root), checkName: validateTemplateNameForFilesystem},
	}, nil
}

// fileVersions is the root directory of a FilesystemStorage
type fileVersions string

func (root fileVersions) names() ([]string, error) {
	entries, err := os.ReadDir(string(root))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: string(root), Cause: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// versions parses the vN.json file names of one template directory
func (root fileVersions) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(string(root), name))
	if os.IsNotExist(err) {
		return []int{}, nil
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}

	versions := []int{}
	for _, entry := range entries {
		number, ok := strings.CutPrefix(entry.Name(), FilesystemVersionPrefix)
		if entry.IsDir() || !ok {
			continue
		}
		number, ok = strings.CutSuffix(number, FilesystemVersionSuffix)
		if !ok {
			continue
		}
		if version, err := strconv.Atoi(number); err == nil && version > 0 {
			versions = append(versions, version)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

func (root fileVersions) read(name string, version int) (*StoredTemplate, error) {
	filename := root.versionFile(name, version)
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, NewStorageVersionNotFoundError(name, version)
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadTemplate, Name: filename, Cause: err}
	}

	var tmpl StoredTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalTemplate, Name: filename, Cause: err}
	}
	return &tmpl, nil
}

func (root fileVersions) write(stored *StoredTemplate) error {
	dir := filepath.Join(string(root), stored.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: dir, Cause: err}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalTemplate, Name: stored.Name, Cause: err}
	}

	filename := root.versionFile(stored.Name, stored.Version)
	if err := os.WriteFile(filename, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWriteTemplate, Name: filename, Cause: err}
	}
	return nil
}

func (root fileVersions) remove(name string) (bool, error) {
	dir := filepath.Join(string(root), name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return true, &StorageError{Message: ErrMsgDeleteTemplate, Name: name, Cause: err}
	}
	return true, nil
}

// release is a no-op: files outlive the store
func (root fileVersions) release() {}

// versionFile returns the path of one version file.
func (root fileVersions) versionFile(name string, version int) string {
	return filepath.Join(string(root), name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// validateTemplateNameForFilesystem rejects names that are empty or would leave the root.
func validateTemplateNameForFilesystem(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StorageError{Message: ErrMsgInvalidTemplateName, Name: name}
	}
	return nil
}
