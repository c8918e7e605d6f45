package checkout

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/usecase/checkout"
)

type CheckoutUseCase interface {
	Execute(ctx context.Context, req *checkout.Request) (*checkout.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
