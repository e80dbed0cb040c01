package project

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/topology"
)

// DefaultCacheSize is used when ServiceConfig.CacheSize is not positive.
const DefaultCacheSize = 256

// ServiceConfig configures a Service.
type ServiceConfig struct {
	CacheSize int
	Derive    DeriveOptions
	Logger    *slog.Logger
}

// Service ties the file store to topology derivation. Parsed documents are
// cached by content; every topology is derived fresh.
type Service struct {
	store *Store
	cache *lru.Cache[string, *flowdoc.Document]
	opts  DeriveOptions
	log   *slog.Logger
	hub   *Hub
}

// NewService creates a Service backed by store.
func NewService(store *Store, cfg ServiceConfig) (*Service, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *flowdoc.Document](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		cache: cache,
		opts:  cfg.Derive,
		log:   log,
		hub:   NewHub(),
	}, nil
}

// Hub returns the hub notified after every file mutation.
func (s *Service) Hub() *Hub { return s.hub }

// Files lists the files of a project.
func (s *Service) Files(ctx context.Context, projectID string) ([]ProjectFile, error) {
	return s.store.ListFiles(ctx, projectID)
}

// File returns one file of a project.
func (s *Service) File(ctx context.Context, projectID, name string) (*ProjectFile, error) {
	return s.store.GetFile(ctx, projectID, name)
}

// CreateFile creates a file from a title and a file type name. Integrations
// start from an empty skeleton.
func (s *Service) CreateFile(ctx context.Context, projectID, title, typeName string) (*ProjectFile, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("name is required")
	}
	ft := flowdoc.FileTypes[0]
	if typeName != "" {
		var ok bool
		if ft, ok = flowdoc.LookupFileType(typeName); !ok {
			return nil, fmt.Errorf("unknown file type %q", typeName)
		}
	}
	name, code := flowdoc.NewFile(title, ft)
	f := &ProjectFile{ProjectID: projectID, Name: name, Type: ft.Name, Code: string(code)}
	if err := s.store.CreateFile(ctx, f); err != nil {
		return nil, err
	}
	s.hub.Notify(projectID)
	return f, nil
}

// SaveFile stores new content for a file, creating it when missing.
func (s *Service) SaveFile(ctx context.Context, projectID, name, code string) (*ProjectFile, error) {
	f := &ProjectFile{ProjectID: projectID, Name: name, Code: code}
	if ft, ok := flowdoc.DetectFileType(name); ok {
		f.Type = ft.Name
	}
	if err := s.store.SaveFile(ctx, f); err != nil {
		return nil, err
	}
	s.hub.Notify(projectID)
	return f, nil
}

// DeleteFile removes a file.
func (s *Service) DeleteFile(ctx context.Context, projectID, name string) error {
	if err := s.store.DeleteFile(ctx, projectID, name); err != nil {
		return err
	}
	s.hub.Notify(projectID)
	return nil
}

// Documents parses the integration files of a project in name order.
func (s *Service) Documents(ctx context.Context, projectID string) ([]flowdoc.Document, error) {
	files, err := s.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var (
		docs []flowdoc.Document
		errs []error
	)
	for _, f := range files {
		if !flowdoc.IsIntegration(f.Name) {
			continue
		}
		doc, err := s.parse(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, *doc)
	}
	if err := HandleLoadErrors(s.log, errors.Join(errs...), s.opts.SkipMalformed); err != nil {
		return nil, err
	}
	return docs, nil
}

// Topology derives the topology of a project.
func (s *Service) Topology(ctx context.Context, projectID string) (*topology.Topology, error) {
	docs, err := s.Documents(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return Derive(s.log, docs, s.opts)
}

func (s *Service) parse(f ProjectFile) (*flowdoc.Document, error) {
	key := contentKey(f.Name, f.Code)
	if doc, ok := s.cache.Get(key); ok {
		return doc, nil
	}
	doc, err := flowdoc.Parse(f.Name, []byte(f.Code))
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, doc)
	return doc, nil
}

func contentKey(name, code string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}
