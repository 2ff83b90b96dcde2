package configwatcher

import (
	"adaptive_learning_backend/internal/config"
	"adaptive_learning_backend/pkg/logger"
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 配置文件变化并重新加载成功后调用
type Reloader func(cfg *config.Config)

type Watcher struct {
	path     string
	debounce time.Duration

	mu        sync.Mutex
	reloaders []Reloader
}

// New 监听 configPath 指向的 config.yaml
func New(configPath string) *Watcher {
	return &Watcher{path: configPath, debounce: time.Second}
}

func (w *Watcher) OnReload(r Reloader) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reloaders = append(w.reloaders, r)
}

func (w *Watcher) notify(cfg *config.Config) {
	w.mu.Lock()
	reloaders := append([]Reloader(nil), w.reloaders...)
	w.mu.Unlock()
	for _, r := range reloaders {
		r(cfg)
	}
}

func (w *Watcher) reload() {
	newCfg, err := config.LoadConfig(filepath.Dir(w.path))
	if err != nil {
		logger.Log.Error("Failed to reload config", zap.Error(err))
		return
	}
	logger.Log.Info("Config reloaded", zap.String("path", w.path))
	w.notify(newCfg)
}

// Run 阻塞直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	// 监听目录，编辑器的原子替换会让文件级 watch 失效
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// 防抖
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
