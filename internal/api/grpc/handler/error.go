package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/krishisakhi/sakhi-session/internal/model"
	"github.com/krishisakhi/sakhi-session/internal/service"
)

func handleError(err error) error {
	if errors.Is(err, model.ErrEmptyToken) {
		return status.Error(codes.InvalidArgument, "token is required")
	}

	var notice *service.NoticeError
	if errors.As(err, &notice) {
		return status.Error(codes.Unavailable, notice.Message)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Unavailable, "credential store unavailable")
	}
}
