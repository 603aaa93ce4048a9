package resources

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const reloadDelay = 500 * time.Millisecond

// watchDir calls callback after changes to directory settle. It stops when
// ctx is done.
func watchDir(
	ctx context.Context,
	directory string,
	callback func(),
	log logrus.FieldLogger,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	err = watcher.Add(directory)
	if err != nil {
		_ = watcher.Close()
		return err
	}

	reload := make(chan struct{}, 1)
	go scheduleReload(ctx, reload, callback)
	go handleWatcher(ctx, watcher, reload, log)
	return nil
}

func handleWatcher(
	ctx context.Context,
	watcher *fsnotify.Watcher,
	reload chan<- struct{},
	log logrus.FieldLogger,
) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("resource watcher error")
		}
	}
}

func scheduleReload(
	ctx context.Context,
	reload <-chan struct{},
	callback func(),
) {
	var timer *time.Timer
	var c <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-reload:
			if timer != nil {
				timer.Reset(reloadDelay)
			} else {
				timer = time.NewTimer(reloadDelay)
				c = timer.C
			}

		case <-c:
			c = nil
			timer = nil
			callback()
		}
	}
}
