/*
Package rctobj is a library for indexing and extracting the images held in
legacy park simulation object definitions.
*/
package rctobj

import (
	"bufio"
	"log"
	"os"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/bodgit/rctobj/object"
	"github.com/pkg/errors"
)

// Repository indexes object definitions found on disk.
type Repository struct {
	db     *IndexDB
	logger *log.Logger
}

// New opens, creating if necessary, the index database in file.
func New(file string, logger *log.Logger) (*Repository, error) {
	db, err := NewIndexDB(file)
	if err != nil {
		return nil, err
	}
	return &Repository{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the index database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Load reads the object definition in file.
func Load(file string, logger *log.Logger) (*object.Definition, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := object.Read(bufio.NewReader(f), logger)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", file)
	}
	return d, nil
}

// Add loads the object definition in file and adds it to the index.
func (r *Repository) Add(file string) error {
	d, err := Load(file, r.logger)
	if err != nil {
		return err
	}
	defer d.Close()

	return r.db.addObject(file, d)
}

// Objects returns every indexed object, ordered by name.
func (r *Repository) Objects() ([]ObjectInfo, error) {
	return r.db.Objects()
}

// FindObject returns the indexed object called name, or nil if there is none.
func (r *Repository) FindObject(name string) (*ObjectInfo, error) {
	return r.db.FindObject(name)
}

// ImageTable returns the image table of the indexed object called name.
func (r *Repository) ImageTable(name string) (*imagetable.Table, error) {
	return r.db.FindImageTable(name)
}
