package usecase

import "context"

// UseCase represents an application use case taking input I and producing O.
type UseCase[I any, O any] interface {
	Execute(ctx context.Context, in *I) (*O, error)
}
