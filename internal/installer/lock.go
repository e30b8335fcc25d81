package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

var flockFn = unix.Flock

var (
	lockWaitTimeout = 2 * time.Minute
	lockPollEvery   = 100 * time.Millisecond
)

// lockCacheEntry takes an exclusive advisory lock on path, polling until it is
// free, lockWaitTimeout passes or ctx ends. The returned func releases it.
func lockCacheEntry(ctx context.Context, path string) (func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.InstallerOpenLockFmt, path, err)
	}
	fd := int(file.Fd())

	timeout := time.NewTimer(lockWaitTimeout)
	defer timeout.Stop()
	poll := time.NewTicker(lockPollEvery)
	defer poll.Stop()

	for {
		err := flockFn(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return func() {
				_ = flockFn(fd, unix.LOCK_UN)
				_ = file.Close()
			}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			_ = file.Close()
			return nil, fmt.Errorf(messages.InstallerLockFmt, path, err)
		}
		select {
		case <-poll.C:
		case <-timeout.C:
			_ = file.Close()
			return nil, fmt.Errorf(messages.InstallerLockTimeoutFmt, lockWaitTimeout)
		case <-ctx.Done():
			_ = file.Close()
			return nil, fmt.Errorf(messages.InstallerLockFmt, path, ctx.Err())
		}
	}
}
