package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrConflict signals the change collides with existing state, such as a duplicate name.
	ErrConflict = errors.New("product conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) || errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateName) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
