package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/github/skillscan/pkg/console"
	"github.com/github/skillscan/pkg/logger"
)

var watchLog = logger.New("cli:watch")

// debounceWindow coalesces editor write bursts (save + rename + chmod)
// into a single rescan.
const debounceWindow = 200 * time.Millisecond

// NewWatchCommand creates the watch command: rescan a directory whenever a
// markdown file inside it changes.
func NewWatchCommand() *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and rescan skill files on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&failOn, "fail-on", "", "Ignored in watch mode; findings are reported continuously")
	_ = cmd.Flags().MarkHidden("fail-on")

	return cmd
}

func runWatch(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory tree, not individual files, so newly created
	// skills are picked up
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			watchLog.Printf("Watching directory: %s", path)
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir)))
	if err := runScan(ctx, dir, scanOptions{}); err != nil {
		return err
	}

	var timer *time.Timer
	rescans := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rescans:
			if err := runScan(ctx, dir, scanOptions{}); err != nil {
				fmt.Println(console.FormatErrorMessage(err.Error()))
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			watchLog.Printf("Change detected: %s (%s)", event.Name, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case rescans <- struct{}{}:
				default:
				}
			})
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(console.FormatWarningMessage(fmt.Sprintf("watch error: %v", watchErr)))
		}
	}
}
