package position

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
)

// Position is the believed (x, y) offset of the actuator from its zero
// reference, in translator units.
type Position struct {
	X int
	Y int
}

// Origin is the zero reference (bottom-left).
var Origin = Position{}

// MaxCoordinate bounds either axis. At 50 ms per unit a full-range move is
// still about a day long, far from overflowing a time.Duration.
const MaxCoordinate = 1_000_000

// InRange reports whether v is a usable coordinate.
func InRange(v int) bool {
	return v >= -MaxCoordinate && v <= MaxCoordinate
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Store persists a Position.
type Store interface {
	Load() (Position, error)
	Save(Position) error
}

// FileStore keeps the position in a two-line text file: x on the first
// line, y on the second, both base-10.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The file is not
// touched until Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record. Any failure wraps errcode.StorageUnavailable.
func (s *FileStore) Load() (Position, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Position{}, errors.Wrapf(errcode.StorageUnavailable, "read %s: %v", s.path, err)
	}

	var vals [2]int
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := range vals {
		if !sc.Scan() {
			return Position{}, errors.Wrapf(errcode.StorageUnavailable, "%s: missing line %d", s.path, i+1)
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return Position{}, errors.Wrapf(errcode.StorageUnavailable, "%s line %d: %v", s.path, i+1, err)
		}
		if !InRange(n) {
			return Position{}, errors.Wrapf(errcode.StorageUnavailable, "%s line %d: %d out of range", s.path, i+1, n)
		}
		vals[i] = n
	}

	p := Position{X: vals[0], Y: vals[1]}
	debug.Verbose("Position loaded from %s: %s", s.path, p)
	return p, nil
}

// Save overwrites the whole record. The file is replaced atomically, so a
// reader sees either the old or the new position, never a torn write.
func (s *FileStore) Save(p Position) error {
	data := []byte(strconv.Itoa(p.X) + "\n" + strconv.Itoa(p.Y) + "\n")
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrapf(errcode.StorageUnavailable, "write %s: %v", s.path, err)
	}
	debug.Verbose("Position saved to %s: %s", s.path, p)
	return nil
}

// LoadOrOrigin loads the position, falling back to Origin when the record
// is unavailable. known is false when the fallback was used.
func LoadOrOrigin(s Store) (p Position, known bool, err error) {
	p, err = s.Load()
	if err != nil {
		debug.Warn("position unknown, assuming %s: %v", Origin, err)
		return Origin, false, err
	}
	return p, true, nil
}
