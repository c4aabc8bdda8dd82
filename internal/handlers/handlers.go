// Package handlers provides HTTP request handlers for the AnimeChat API
package handlers

import (
	"net/http"

	"github.com/animechat/backend/internal/config"
	apierrors "github.com/animechat/backend/internal/errors"
	"github.com/animechat/backend/internal/kernel"
)

// Handlers holds handler dependencies
type Handlers struct {
	kernel *kernel.Kernel
	config *config.Config
}

// New creates a handler set backed by the kernel's services
func New(k *kernel.Kernel, cfg *config.Config) *Handlers {
	return &Handlers{kernel: k, config: cfg}
}

// apiConflict builds a 409 with a caller-supplied message
func apiConflict(message string) *apierrors.APIError {
	return &apierrors.APIError{
		Code:    apierrors.ErrConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}
