package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of decompressed objects kept in memory.
const DefaultCacheSize = 256

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Each file holds the zlib-compressed
// envelope "type len\0content".
type Store struct {
	root  string
	level int
	log   *zap.Logger
	cache *lru.Cache[Hash, []byte]
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCompressionLevel sets the zlib level used for new objects.
func WithCompressionLevel(level int) StoreOption {
	return func(s *Store) {
		s.level = level
	}
}

// WithCacheSize sets how many decompressed objects are cached. Zero disables
// the cache.
func WithCacheSize(n int) StoreOption {
	return func(s *Store) {
		s.cache = nil
		if n <= 0 {
			return
		}
		// lru.New only fails for non-positive sizes.
		s.cache, _ = lru.New[Hash, []byte](n)
	}
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is expected to exist; shard directories are created on first
// write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{
		root:  root,
		level: zlib.DefaultCompression,
		log:   zap.NewNop(),
	}
	WithCacheSize(DefaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "ObjectStore"))
	return s
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

// objectPath returns the filesystem path for a validated hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if h.Validate() != nil {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Put compresses raw and writes it at the location derived from h. Storing
// an object that already exists is a no-op. Writes are atomic: data goes to
// a temp file in the shard directory and is then renamed into place.
func (s *Store) Put(h Hash, raw []byte) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("object put: %w", err)
	}

	// Fast path: already exists.
	if s.Has(h) {
		s.log.Debug("object already present", zap.Stringer("hash", h))
		return nil
	}

	compressed, err := compressObject(raw, s.level)
	if err != nil {
		return fmt.Errorf("object put %s: %w", h, err)
	}

	// MkdirAll tolerates a shard directory created concurrently.
	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object put mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("object put tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		err = multierr.Combine(err, tmp.Close(), os.Remove(tmpName))
		return fmt.Errorf("object put: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("object put close: %w", multierr.Append(err, os.Remove(tmpName)))
	}
	if err := os.Chmod(tmpName, 0o444); err != nil {
		return fmt.Errorf("object put chmod: %w", multierr.Append(err, os.Remove(tmpName)))
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		return fmt.Errorf("object put rename: %w", multierr.Append(err, os.Remove(tmpName)))
	}

	s.log.Debug("object stored", zap.Stringer("hash", h), zap.Int("size", len(raw)), zap.Int("compressed", len(compressed)))
	return nil
}

// Get reads and decompresses the envelope stored under h.
func (s *Store) Get(h Hash) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("object get: %w", err)
	}
	if s.cache != nil {
		if raw, ok := s.cache.Get(h); ok {
			s.log.Debug("object cache hit", zap.Stringer("hash", h))
			return bytes.Clone(raw), nil
		}
	}

	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object get %s: %w", h, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("object get %s: %w", h, err)
	}
	raw, err := decompressObject(compressed)
	if err != nil {
		return nil, fmt.Errorf("object get %s: %w", h, err)
	}

	if s.cache != nil {
		s.cache.Add(h, bytes.Clone(raw))
	}
	return raw, nil
}

// Write stores an object and returns its content hash. The stored envelope
// is "type len\0content".
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Valid() {
		return "", fmt.Errorf("object write %q: %w", string(objType), ErrUnknownObjectType)
	}
	header := envelopeHeader(objType, len(data))
	raw := make([]byte, 0, len(header)+len(data))
	raw = append(raw, header...)
	raw = append(raw, data...)

	h := HashObject(objType, data)
	if err := s.Put(h, raw); err != nil {
		return "", err
	}
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	raw, err := s.Get(h)
	if err != nil {
		return "", nil, err
	}
	objType, content, err := parseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, content, nil
}

// parseEnvelope splits "type len\0content" and checks the declared length.
func parseEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorruptObject)
	}
	header := raw[:nulIdx]
	content := raw[nulIdx+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	objType := ObjectType(header[:sp])
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w %q", ErrUnknownObjectType, string(objType))
	}
	length, err := strconv.Atoi(string(header[sp+1:]))
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, header[sp+1:])
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(content))
	}
	return objType, content, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteObject encodes and stores any object kind.
func (s *Store) WriteObject(o Object) (Hash, error) {
	objType, data, err := Encode(o)
	if err != nil {
		return "", err
	}
	return s.Write(objType, data)
}

// ReadObject reads and decodes an object of any kind.
func (s *Store) ReadObject(h Hash) (Object, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	o, err := Decode(objType, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return o, nil
}

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, TypeBlob)
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj. Any other kind yields
// ErrNotATree.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, fmt.Errorf("object %s: %w (got %q)", h, ErrNotATree, objType)
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	data, err := MarshalCommit(c)
	if err != nil {
		return "", err
	}
	return s.Write(TypeCommit, data)
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, TypeCommit)
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
