package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/workday-go/internal/datadir"
	"github.com/nibzard/workday-go/internal/utils"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	exportStamp    = "20060102_150405.000000"
	maxExportTries = 100
)

// Store reads and writes the task document and work log exports in a
// single data directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the path of the task document.
func (s *Store) Path() string {
	return datadir.TasksPath(s.dir)
}

// Load reads the task document. A missing file yields NewDocument().
// Unparseable or invalid content fails with *CorruptError and the file is
// left as it is.
func (s *Store) Load() (*Document, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if problems := validateRaw(raw); len(problems) > 0 {
		return nil, &CorruptError{Path: path, Problems: problems}
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if problems := checkInvariants(&d); len(problems) > 0 {
		return nil, &CorruptError{Path: path, Problems: problems}
	}
	d.normalize()
	return &d, nil
}

// Save writes the whole document atomically: the bytes go to a temporary
// file in the data directory which is then renamed over the target.
func (s *Store) Save(d *Document) error {
	if d == nil {
		return errors.New("save: nil document")
	}
	d.normalize()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	path := s.Path()
	if err := writeFileAtomic(path, data, filePerm); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ExportLog writes text to a new timestamped file named after c and returns
// its path. Existing files are never overwritten.
func (s *Store) ExportLog(c Context, text string) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("export log: unknown context %q", c)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", &StorageError{Op: "create", Path: s.dir, Err: err}
	}

	base := utils.FileSafeName(c.Label(), string(c)) + "_" + now().Local().Format(exportStamp)
	for i := 1; i <= maxExportTries; i++ {
		name := base + datadir.ExportExt
		if i > 1 {
			name = fmt.Sprintf("%s-%d%s", base, i, datadir.ExportExt)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", &StorageError{Op: "create", Path: path, Err: err}
		}
		if err := writeAndClose(f, []byte(text)); err != nil {
			_ = os.Remove(path)
			return "", &StorageError{Op: "write", Path: path, Err: err}
		}
		return path, nil
	}
	return "", &StorageError{Op: "create", Path: filepath.Join(s.dir, base+datadir.ExportExt), Err: fs.ErrExist}
}

// Quarantine moves the current task document aside so a fresh one can be
// started. It returns the new location of the old file.
func (s *Store) Quarantine() (string, error) {
	path := s.Path()
	dest := path + ".corrupt-" + now().Local().Format("20060102-150405")
	if _, err := os.Stat(dest); err == nil {
		dest = fmt.Sprintf("%s-%d", dest, os.Getpid())
	}
	if err := os.Rename(path, dest); err != nil {
		return "", &StorageError{Op: "rename", Path: path, Err: err}
	}
	return dest, nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk where the platform allows opening a
// directory; failures here do not undo a completed rename.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
