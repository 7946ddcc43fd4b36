package view

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultFPS is the frame rate used by RunAtRate when fps is not positive.
const DefaultFPS = 60

// Frame clears the viewport to the current size and draws the texture, if
// any, on the full-screen quad.
func (v *View) Frame() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isDisposed() {
		return ErrDisposed
	}
	if !v.mounted {
		return ErrNotMounted
	}

	w, h := v.state.Width, v.state.Height
	v.dev.Viewport(w, h)
	v.dev.Clear()
	v.metrics.Frames.Inc()

	if v.tex == 0 {
		return nil
	}

	return v.dev.DrawArrays(v.program, v.buffer, v.tex, [2]float32{float32(w), float32(h)})
}

// Run draws one frame per tick until ctx is done, ticks is closed or the
// view is disposed. Disposal and a closed ticks channel return nil.
func (v *View) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-v.disposed:
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if err := v.Frame(); err != nil {
				if errors.Is(err, ErrDisposed) {
					return nil
				}
				v.log.Debug("frame failed", zap.Error(err))
			}
		}
	}
}

// RunAtRate runs the render loop at fps frames per second.
func (v *View) RunAtRate(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	return v.Run(ctx, ticker.C)
}
