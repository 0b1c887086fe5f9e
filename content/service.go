package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/lixenwraith/rally/status"
)

// Service exposes the asset cache through the hub
// A configured root directory shadows the bundled assets file by file
type Service struct {
	root     string
	fallback fs.FS
	reg      *status.Registry
	log      *zap.Logger
	fsys     fs.FS
	cache    *Cache
}

func NewService(root string, fallback fs.FS, reg *status.Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{root: root, fallback: fallback, reg: reg, log: log.Named("content")}
}

func (s *Service) Name() string           { return "content" }
func (s *Service) Dependencies() []string { return nil }

func (s *Service) Init() error {
	var layers []fs.FS
	if s.root != "" {
		info, err := os.Stat(s.root)
		if err != nil {
			return fmt.Errorf("content root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("content root %s: not a directory", s.root)
		}
		layers = append(layers, os.DirFS(s.root))
		s.log.Info("content root mounted", zap.String("root", s.root))
	}
	if s.fallback != nil {
		layers = append(layers, s.fallback)
	}
	if len(layers) == 0 {
		return errors.New("content: no sources configured")
	}
	s.fsys = Overlay(layers...)
	s.cache = NewCache(s.fsys, s.reg, s.log)
	return nil
}

func (s *Service) Start() error { return nil }

func (s *Service) Stop() error {
	if s.cache != nil {
		s.cache.Clear()
	}
	return nil
}

// FS is the layered asset tree, valid after Init
func (s *Service) FS() fs.FS {
	return s.fsys
}

// Cache is valid after Init
func (s *Service) Cache() *Cache {
	return s.cache
}

type overlayFS []fs.FS

// Overlay resolves each Open against the layers in order and returns the
// first file that exists
func Overlay(layers ...fs.FS) fs.FS {
	return overlayFS(layers)
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	for _, layer := range o {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
