package balsa

// MemoryStorage keeps template versions in process memory.
// It suits tests, examples and short-lived engines; nothing survives the process.
type MemoryStorage struct {
	versionedStore
}

// MemoryStorageDriver opens MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates an empty MemoryStorage. The connection string is ignored.
func (d *MemoryStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty in-memory template storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		versionedStore: versionedStore{backend: memoryVersions{}, checkName: requireTemplateName},
	}
}

// memoryVersions maps a name to its records, newest first. Records are
// copied on the way in and out so callers never share them.
type memoryVersions map[string][]*StoredTemplate

func (m memoryVersions) names() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names, nil
}

func (m memoryVersions) versions(name string) ([]int, error) {
	records := m[name]
	numbers := make([]int, len(records))
	for i, rec := range records {
		numbers[i] = rec.Version
	}
	return numbers, nil
}

func (m memoryVersions) read(name string, version int) (*StoredTemplate, error) {
	for _, rec := range m[name] {
		if rec.Version == version {
			return copyStoredTemplate(rec), nil
		}
	}
	return nil, NewStorageVersionNotFoundError(name, version)
}

func (m memoryVersions) write(stored *StoredTemplate) error {
	m[stored.Name] = append([]*StoredTemplate{copyStoredTemplate(stored)}, m[stored.Name]...)
	return nil
}

func (m memoryVersions) remove(name string) (bool, error) {
	_, ok := m[name]
	delete(m, name)
	return ok, nil
}

func (m memoryVersions) release() {
	for name := range m {
		delete(m, name)
	}
}
