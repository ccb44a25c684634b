// Package lockfile implements the advisory lock that keeps two editing tools
// from opening the same project at once.
package lockfile

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const FileName = ".plotline.lock"

var ErrLocked = errors.New("project is locked by another editor")

// Lock is a held project lock.
type Lock struct {
	Dir   string
	Token string
}

var entropy = rand.New(rand.NewSource(time.Now().UnixNano()))

func newToken() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Acquire creates dir/.plotline.lock. It fails with ErrLocked if the file
// already exists.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			owner, _ := Read(dir)
			return nil, fmt.Errorf("%s (owner %s): %w", dir, owner, ErrLocked)
		}
		return nil, fmt.Errorf("creating lock: %w", err)
	}
	defer f.Close()

	l := &Lock{Dir: dir, Token: newToken()}
	if _, err := f.WriteString(l.Token + "\n"); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock: %w", err)
	}
	return l, nil
}

// Release removes the lock file if it still carries this lock's token.
func (l *Lock) Release() error {
	owner, err := Read(l.Dir)
	if err != nil {
		return err
	}
	if owner == "" {
		return nil
	}
	if owner != l.Token {
		return fmt.Errorf("lock in %s is held by %s: %w", l.Dir, owner, ErrLocked)
	}
	return os.Remove(filepath.Join(l.Dir, FileName))
}

// Read returns the owner token in dir's lock file, or "" if the project is
// not locked.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Break removes a lock regardless of its owner.
func Break(dir string) error {
	err := os.Remove(filepath.Join(dir, FileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
