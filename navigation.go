package goRoles

import "context"

// Navigator performs the navigation side effect that follows a logout.
// UI hosts route to their login view; CLIs typically print a hint.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, route string) error

func (f NavigatorFunc) Navigate(ctx context.Context, route string) error {
	return f(ctx, route)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) error { return nil }
