package rctobj

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/bodgit/rctobj/object"
	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	blobEncoder *zstd.Encoder
	blobDecoder *zstd.Decoder
)

func init() {
	var err error
	if blobEncoder, err = zstd.NewWriter(nil); err != nil {
		panic(err)
	}
	if blobDecoder, err = zstd.NewReader(nil); err != nil {
		panic(err)
	}
}

// ObjectInfo is what the index knows about an object.
type ObjectInfo struct {
	Name     string
	Type     object.Type
	Flags    uint32
	Checksum uint32
	Path     string
	Images   int
	DataSize int
}

// IndexDB stores every object found along with its image table. Identical
// image tables are only stored once.
type IndexDB struct {
	db *sql.DB
}

// NewIndexDB opens the SQLite database in file, creating the schema if
// necessary.
func NewIndexDB(file string) (*IndexDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Scanning workers write concurrently, SQLite only has one writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image_table (id INTEGER PRIMARY KEY NOT NULL, hash TEXT NOT NULL UNIQUE, count INTEGER NOT NULL, size INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS object (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL, type INTEGER NOT NULL, flags INTEGER NOT NULL, checksum INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, image_table_id INTEGER NOT NULL, FOREIGN KEY(image_table_id) REFERENCES image_table(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &IndexDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *IndexDB) Close() error {
	return db.db.Close()
}

func (db *IndexDB) addImageTable(t *imagetable.Table) (int64, error) {
	b, err := t.MarshalBinary()
	if err != nil {
		return 0, err
	}
	hash := fmt.Sprintf("%016X", xxhash.Sum64(b))

	if _, err := db.db.Exec("INSERT OR IGNORE INTO image_table (hash, count, size, data) VALUES (?, ?, ?, ?)", hash, t.Count(), t.DataSize(), blobEncoder.EncodeAll(b, nil)); err != nil {
		return 0, err
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM image_table WHERE hash = ?", hash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *IndexDB) addObject(path string, d *object.Definition) error {
	table, err := db.addImageTable(d.Images)
	if err != nil {
		return errors.Wrapf(err, "storing image table of %s", path)
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO object (name, type, flags, checksum, path, image_table_id) VALUES (?, ?, ?, ?, ?, ?)", d.Entry.Identifier(), int(d.Entry.Type()), int64(d.Entry.Flags), int64(d.Entry.Checksum), path, table); err != nil {
		return errors.Wrapf(err, "storing %s", path)
	}
	return nil
}

// prune deletes any image table no longer used by an object.
func (db *IndexDB) prune() error {
	result, err := db.db.Exec("DELETE FROM image_table WHERE id NOT IN (SELECT image_table_id FROM object)")
	if err != nil {
		return errors.Wrap(err, "pruning image tables")
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		glog.V(2).Infof("rctobj: pruned %d unused image tables", n)
	}
	return nil
}

const objectQuery = "SELECT o.name, o.type, o.flags, o.checksum, o.path, t.count, t.size FROM object AS o JOIN image_table AS t ON o.image_table_id = t.id"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanObject(row scanner) (*ObjectInfo, error) {
	var info ObjectInfo
	var typ int
	var flags, sum int64
	if err := row.Scan(&info.Name, &typ, &flags, &sum, &info.Path, &info.Images, &info.DataSize); err != nil {
		return nil, err
	}
	info.Type = object.Type(typ)
	info.Flags = uint32(flags)
	info.Checksum = uint32(sum)
	return &info, nil
}

// Objects returns every object ordered by name and then path.
func (db *IndexDB) Objects() ([]ObjectInfo, error) {
	rows, err := db.db.Query(objectQuery + " ORDER BY o.name, o.path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []ObjectInfo
	for rows.Next() {
		info, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, *info)
	}
	return objects, rows.Err()
}

// FindObject returns the first object called name, or nil if there is none.
func (db *IndexDB) FindObject(name string) (*ObjectInfo, error) {
	info, err := scanObject(db.db.QueryRow(objectQuery+" WHERE o.name = ? ORDER BY o.path LIMIT 1", name))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return info, nil
	default:
		return nil, err
	}
}

// FindImageTable returns the image table of the first object called name, or
// nil if there is none.
func (db *IndexDB) FindImageTable(name string) (*imagetable.Table, error) {
	var blob []byte
	switch err := db.db.QueryRow("SELECT t.data FROM object AS o JOIN image_table AS t ON o.image_table_id = t.id WHERE o.name = ? ORDER BY o.path LIMIT 1", name).Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	b, err := blobDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing image table of %s", name)
	}

	t := imagetable.New()
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, errors.Wrapf(err, "decoding image table of %s", name)
	}
	return t, nil
}
