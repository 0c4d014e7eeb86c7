// Package store loads and saves configuration documents from a local path
// or an s3://bucket/key location.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"

	"github.com/imamik/qhub/internal/config"
	platformaws "github.com/imamik/qhub/internal/platform/aws"
	"github.com/imamik/qhub/internal/platform/s3"
)

// ErrExists is returned when a create-only save finds an existing document.
var ErrExists = errors.New("config already exists")

// Location is where a document lives: either Path, or Bucket and Key.
type Location struct {
	Path   string
	Bucket string
	Key    string
}

// ParseLocation accepts a filesystem path or an s3://bucket/key URL.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("config location is empty")
	}
	if !strings.HasPrefix(s, "s3://") {
		return Location{Path: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("invalid S3 location %q: %w", s, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("invalid S3 location %q: expected s3://bucket/key", s)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// IsRemote reports whether the document lives in an object store.
func (l Location) IsRemote() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.IsRemote() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ObjectStore is the subset of the S3 client the store needs.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte, overwrite bool) error
}

// Store reads documents through a validation engine.
type Store struct {
	engine *config.Engine

	newObjects func(context.Context) (ObjectStore, error)
	once       sync.Once
	objects    ObjectStore
	objectsErr error
}

// Option configures a Store.
type Option func(*Store)

// WithObjectStore sets the object store used for s3:// locations.
func WithObjectStore(o ObjectStore) Option {
	return func(s *Store) {
		s.newObjects = func(context.Context) (ObjectStore, error) { return o, nil }
	}
}

// WithAWSOptions sets the credentials and endpoint for s3:// locations.
func WithAWSOptions(opts platformaws.Options) Option {
	return func(s *Store) {
		s.newObjects = func(ctx context.Context) (ObjectStore, error) {
			return s3.NewClient(ctx, opts)
		}
	}
}

// New returns a Store validating with engine. The S3 client is only
// created once a remote location is used.
func New(engine *config.Engine, opts ...Option) *Store {
	s := &Store{engine: engine}
	WithAWSOptions(platformaws.Options{})(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) objectStore(ctx context.Context) (ObjectStore, error) {
	s.once.Do(func() {
		s.objects, s.objectsErr = s.newObjects(ctx)
	})
	return s.objects, s.objectsErr
}

// Read returns the raw document at loc.
func (s *Store) Read(ctx context.Context, loc Location) ([]byte, error) {
	if !loc.IsRemote() {
		return nil, fmt.Errorf("read %s: not a remote location", loc)
	}
	objects, err := s.objectStore(ctx)
	if err != nil {
		return nil, err
	}
	data, err := objects.GetObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}
	return data, nil
}

// Load reads and validates the document at loc.
func (s *Store) Load(ctx context.Context, loc Location) (*config.Config, error) {
	if !loc.IsRemote() {
		return s.engine.LoadFile(ctx, loc.Path)
	}
	data, err := s.Read(ctx, loc)
	if err != nil {
		return nil, err
	}
	return s.engine.Parse(ctx, data)
}

// Save writes the canonical form of c to loc. An existing document is only
// replaced when overwrite is set; otherwise the error matches ErrExists.
func (s *Store) Save(ctx context.Context, loc Location, c *config.Config, overwrite bool) error {
	if !loc.IsRemote() {
		err := config.Save(c, loc.Path, overwrite)
		if err != nil && errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %w", ErrExists, err)
		}
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	objects, err := s.objectStore(ctx)
	if err != nil {
		return err
	}
	if err := objects.PutObject(ctx, loc.Bucket, loc.Key, data, overwrite); err != nil {
		if errors.Is(err, s3.ErrExists) {
			return fmt.Errorf("%w: %s", ErrExists, loc)
		}
		return fmt.Errorf("failed to write %s: %w", loc, err)
	}
	return nil
}
