package clipboard

import (
	"context"
	"fmt"

	atotto "github.com/atotto/clipboard"
)

// LocalSurface writes from the calling process.
type LocalSurface struct {
	write func(string) error
}

func (l LocalSurface) Write(ctx context.Context, text string) (bool, error) {
	if err := l.write(text); err != nil {
		return false, err
	}
	return true, nil
}

func (LocalSurface) Close() error {
	return nil
}

// LocalLauncher fails up front when no clipboard backend is installed.
func LocalLauncher(ctx context.Context) (Surface, error) {
	if atotto.Unsupported {
		return nil, fmt.Errorf("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	return LocalSurface{write: atotto.WriteAll}, nil
}
