package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"yardgate/internal"
	"yardgate/internal/config"
	"yardgate/internal/pipeline"
	"yardgate/internal/util"
)

const (
	sidecarSuffix = ".cmd.txt"
	processedDir  = "processed"
	failedDir     = "failed"
)

// Service watches the intake folder for dropped manifest workbooks. Each
// booking group has its own subfolder; the subfolder name doubles as the
// group name. Files landing at the intake root belong to the default group.
//
// Uploads are rarely atomic, so events only arm a debounce timer; the file is
// read once it has stopped changing. A periodic rescan catches anything the
// notifier missed.
type Service struct {
	svc *pipeline.Service
	cfg config.Config
	log *zap.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	inflight map[string]bool
}

func NewService(svc *pipeline.Service, cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		svc:      svc,
		cfg:      cfg,
		log:      log,
		pending:  map[string]*time.Timer{},
		inflight: map[string]bool{},
	}
}

func (s *Service) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.IntakeDir, 0o755); err != nil {
		return fmt.Errorf("create intake dir: %w", err)
	}
	if err := os.MkdirAll(s.cfg.ReplyDir, 0o755); err != nil {
		return fmt.Errorf("create reply dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := s.watchTree(w); err != nil {
		return err
	}

	s.rescan()

	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.handleEvent(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			if err := s.watchTree(w); err != nil {
				s.log.Warn("rescan watch dirs failed", zap.Error(err))
			}
			s.rescan()
		}
	}
}

// watchTree registers the intake root and every group subfolder, skipping the
// processed/failed trays.
func (s *Service) watchTree(w *fsnotify.Watcher) error {
	if err := w.Add(s.cfg.IntakeDir); err != nil {
		return fmt.Errorf("watch intake dir: %w", err)
	}
	entries, err := os.ReadDir(s.cfg.IntakeDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == processedDir || e.Name() == failedDir {
			continue
		}
		if err := w.Add(filepath.Join(s.cfg.IntakeDir, e.Name())); err != nil {
			s.log.Warn("watch group dir failed", zap.String("dir", e.Name()), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) handleEvent(w *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			base := filepath.Base(event.Name)
			if base != processedDir && base != failedDir {
				_ = w.Add(event.Name)
			}
		}
		return
	}

	if !isManifestFile(event.Name) {
		return
	}
	s.debounce(event.Name)
}

// debounce resets the file's timer on every event; processing starts only
// once the file has been quiet for the configured window.
func (s *Service) debounce(path string) {
	wait := time.Duration(s.cfg.WatchDebounceMs) * time.Millisecond

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[path]; ok {
		t.Reset(wait)
		return
	}
	s.pending[path] = time.AfterFunc(wait, func() {
		s.mu.Lock()
		delete(s.pending, path)
		busy := s.inflight[path]
		if !busy {
			s.inflight[path] = true
		}
		s.mu.Unlock()
		if busy {
			return
		}
		defer func() {
			s.mu.Lock()
			delete(s.inflight, path)
			s.mu.Unlock()
		}()
		s.process(path)
	})
}

// rescan queues files already sitting in the tree, e.g. ones dropped while
// the watcher was down.
func (s *Service) rescan() {
	groups, err := os.ReadDir(s.cfg.IntakeDir)
	if err != nil {
		s.log.Warn("rescan intake dir failed", zap.Error(err))
		return
	}
	for _, e := range groups {
		if e.IsDir() {
			if e.Name() == processedDir || e.Name() == failedDir {
				continue
			}
			s.rescanDir(filepath.Join(s.cfg.IntakeDir, e.Name()))
			continue
		}
		if isManifestFile(e.Name()) {
			s.debounce(filepath.Join(s.cfg.IntakeDir, e.Name()))
		}
	}
}

func (s *Service) rescanDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && isManifestFile(e.Name()) {
			s.debounce(filepath.Join(dir, e.Name()))
		}
	}
}

func (s *Service) process(path string) {
	meta, err := ReadMeta(path, s.cfg.IntakeDir)
	if err != nil {
		s.log.Warn("read intake metadata failed", zap.String("file", path), zap.Error(err))
		return
	}

	outcome, err := s.svc.ProcessFile(path, meta)
	if err != nil {
		s.log.Error("process intake file failed", zap.String("file", path), zap.Error(err))
		s.stash(path, failedDir)
		return
	}

	if outcome.Reply != "" {
		if err := s.writeReply(meta, outcome.Reply); err != nil {
			s.log.Warn("write reply failed", zap.String("file", path), zap.Error(err))
		}
	}
	s.stash(path, processedDir)
}

func (s *Service) writeReply(meta internal.IntakeMeta, reply string) error {
	base := strings.TrimSuffix(meta.Filename, filepath.Ext(meta.Filename))
	name := fmt.Sprintf("%s--%s.reply.txt", util.SanitizeFilename(base), time.Now().Format("150405"))
	return os.WriteFile(filepath.Join(s.cfg.ReplyDir, name), []byte(reply), 0o644)
}

// stash moves a handled file and its sidecar out of the watched tree so they
// are not picked up again.
func (s *Service) stash(path, tray string) {
	dir := filepath.Join(s.cfg.IntakeDir, tray)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Warn("create tray dir failed", zap.Error(err))
		return
	}
	dst := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		s.log.Warn("move handled file failed", zap.String("file", path), zap.Error(err))
	}
	sidecar := sidecarPath(path)
	if _, err := os.Stat(sidecar); err == nil {
		_ = os.Rename(sidecar, filepath.Join(dir, filepath.Base(sidecar)))
	}
}

// ReadMeta assembles the intake metadata for a dropped file: the group name
// from its subfolder, the sent time from the file's mtime, and the message
// body from the optional <name>.cmd.txt sidecar.
func ReadMeta(path, intakeDir string) (internal.IntakeMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return internal.IntakeMeta{}, err
	}

	meta := internal.IntakeMeta{
		Filename: filepath.Base(path),
		SentAt:   info.ModTime(),
	}

	if rel, err := filepath.Rel(intakeDir, path); err == nil {
		if dir := filepath.Dir(rel); dir != "." {
			meta.GroupName = dir
		}
	}
	meta.Shipping = IsShippingGroup(meta.GroupName)

	if body, err := os.ReadFile(sidecarPath(path)); err == nil {
		meta.Body = strings.TrimSpace(string(body))
	}
	return meta, nil
}

// IsShippingGroup reports whether a group is a shipping-line channel. Those
// files get release papers and job numbers but no archive copy or reply.
func IsShippingGroup(group string) bool {
	return strings.Contains(strings.ToLower(group), "release paper")
}

func sidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + sidecarSuffix
}

func isManifestFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}
