package cli

import (
	"context"

	"github.com/julianstephens/neurogrowth/internal/screen"
)

// Fetch runs a read through a screen controller. A 401 clears the session
// and comes back as ErrSessionExpired.
func Fetch[T any](c *Context, fetch func(context.Context) (T, error)) (T, error) {
	ctrl := screen.New[T]()
	if err := ctrl.Load(context.Background(), fetch); err != nil {
		var zero T
		return zero, c.Check(err)
	}
	data, _ := ctrl.Data()
	return data, nil
}

// Submit runs a mutation through a screen controller, with the same error
// handling as Fetch.
func Submit[T any](c *Context, action func(context.Context) (T, error)) (T, error) {
	var zero T
	ctrl := screen.NewReady(zero)
	err := ctrl.Submit(context.Background(), func(ctx context.Context) (*T, error) {
		v, err := action(ctx)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return zero, c.Check(err)
	}
	data, _ := ctrl.Data()
	return data, nil
}
