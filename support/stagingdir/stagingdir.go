// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package stagingdir builds an output directory in a temporary location and
// moves it into place once every file in it has been written.
package stagingdir

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// D manages a staging directory.
//
// While D is active, it resides in a temporary location. Once finished, D
// can either be committed or destroyed. On commit, it is atomically moved into
// its destination; on destroy, it is deleted along with all of its contents.
type D struct {
	// tempDir is the temporary directory to use for staging.
	tempDir string

	// path is the path of the staging directory.
	path string
}

// New creates a new staging directory underneath of tempDir.
//
// The directory will be created with the specified prefix. If tempDir is
// empty, the system temporary directory is used.
func New(tempDir, prefix string) (*D, error) {
	stagingPath, err := ioutil.TempDir(tempDir, prefix)
	if err != nil {
		return nil, err
	}

	return &D{
		tempDir: tempDir,
		path:    stagingPath,
	}, nil
}

// Path builds a path relative to the staging directory.
func (sd *D) Path(name string) string {
	if sd.path == "" {
		panic("staging directory is not active")
	}
	return filepath.Join(sd.path, name)
}

// WriteFile creates the file name in the staging directory and calls fn to
// fill it.
func (sd *D) WriteFile(name string, fn func(io.Writer) error) (err error) {
	fd, err := os.Create(sd.Path(name))
	if err != nil {
		return errors.Wrapf(err, "creating %q", name)
	}
	defer func() {
		if closeErr := fd.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "closing %q", name)
		}
	}()

	return fn(fd)
}

// Destroy purges the staging directory and its contents.
func (sd *D) Destroy() error {
	if sd.path == "" {
		// There is nothing to destroy.
		return nil
	}

	if err := os.RemoveAll(sd.path); err != nil {
		return err
	}

	sd.path = "" // Destroyed.
	return nil
}

// Commit finalizes the staging directory, atomically moving it to dest.
//
// If something already exists at dest, it is replaced.
func (sd *D) Commit(dest string) error {
	if sd.path == "" {
		return errors.New("invalid staging directory")
	}

	if _, err := os.Stat(dest); err == nil {
		// Move the existing output aside, so the final rename is atomic. It is
		// purged once the new output is in place.
		killDir, err := ioutil.TempDir(sd.tempDir, "overwrite")
		if err != nil {
			return errors.Wrap(err, "create overwrite directory")
		}
		defer func() {
			_ = os.RemoveAll(killDir)
		}()

		if err := os.Rename(dest, filepath.Join(killDir, filepath.Base(dest))); err != nil {
			return errors.Wrapf(err, "moving existing %q aside", dest)
		}
	}

	if err := os.Rename(sd.path, dest); err != nil {
		return errors.Wrapf(err, "moving staging directory into place (%q => %q)", sd.path, dest)
	}
	sd.path = "" // Committed.
	return nil
}
