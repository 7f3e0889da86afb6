package db

import (
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/RaheemJnr/Light-Client-Gateway/logger"
)

// OpenFileLimit is not read by OpenLevelDB; the open-files cache capacity
// comes from OpenLevelDB's handles argument.
var OpenFileLimit = 64

// LevelDB is the embedded single-process backend: a goleveldb instance
// wrapped to satisfy the Database contract.
type LevelDB struct {
	file string
	ldb  *leveldb.DB
}

// OpenLevelDB opens (or creates) a LevelDB-backed store at file, recovering
// from corruption on the first open attempt.
func OpenLevelDB(file string, cacheMB, handles int) (*LevelDB, error) {
	if cacheMB < 16 {
		cacheMB = 16
	}
	if handles < 16 {
		handles = 16
	}
	logger.Infof("store: opening leveldb at %s (cache=%dMB handles=%d)", filepath.Clean(file), cacheMB, handles)

	ldb, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		WriteBuffer:            cacheMB / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		ldb, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LevelDB{file: file, ldb: ldb}, nil
}

func (d *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := d.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

func (d *LevelDB) Has(key []byte) (bool, error) {
	return d.ldb.Has(key, nil)
}

func (d *LevelDB) Put(key, value []byte) error { return d.ldb.Put(key, value, nil) }

func (d *LevelDB) Delete(key []byte) error { return d.ldb.Delete(key, nil) }

func (d *LevelDB) NewIteratorWithPrefix(prefix []byte, dir Direction) Iterator {
	rng := util.BytesPrefix(prefix)
	it := d.ldb.NewIterator(rng, nil)
	return wrapIterator(it, dir)
}

func (d *LevelDB) NewIteratorRange(start, end []byte, dir Direction) Iterator {
	rng := &util.Range{Start: start, Limit: end}
	it := d.ldb.NewIterator(rng, nil)
	return wrapIterator(it, dir)
}

func (d *LevelDB) NewBatch() Batch { return &levelBatch{ldb: d.ldb, b: new(leveldb.Batch)} }

func (d *LevelDB) Close() error {
	if err := d.ldb.Close(); err != nil {
		logger.Errorf("store: closing leveldb %s: %s", d.file, err)
		return err
	}
	return nil
}

func (d *LevelDB) LDB() *leveldb.DB { return d.ldb }

// dirIterator adapts goleveldb's Next/Prev-based cursor to the
// single-direction Next() contract of db.Iterator.
type dirIterator struct {
	it      iterator.Iterator
	dir     Direction
	started bool
}

func wrapIterator(it iterator.Iterator, dir Direction) Iterator {
	return &dirIterator{it: it, dir: dir}
}

func (i *dirIterator) Next() bool {
	if !i.started {
		i.started = true
		if i.dir == Reverse {
			return i.it.Last()
		}
		return i.it.First()
	}
	if i.dir == Reverse {
		return i.it.Prev()
	}
	return i.it.Next()
}

func (i *dirIterator) Key() []byte   { return i.it.Key() }
func (i *dirIterator) Value() []byte { return i.it.Value() }
func (i *dirIterator) Release()      { i.it.Release() }
func (i *dirIterator) Error() error  { return i.it.Error() }

type levelBatch struct {
	ldb *leveldb.DB
	b   *leveldb.Batch
}

func (b *levelBatch) Put(key, value []byte) error { b.b.Put(key, value); return nil }
func (b *levelBatch) Delete(key []byte) error      { b.b.Delete(key); return nil }
func (b *levelBatch) Write() error                 { return b.ldb.Write(b.b, nil) }
func (b *levelBatch) Reset()                       { b.b.Reset() }
func (b *levelBatch) Len() int                     { return b.b.Len() }
