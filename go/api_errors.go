package inventoryserver

import (
	ordersapp "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	productsapp "github.com/Apurer/go-gin-inventory-server/internal/domains/products/application"
	productsports "github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	apierrors "github.com/Apurer/go-gin-inventory-server/internal/shared/errors"
)

// responder translates application sentinels into problem documents. Unmatched errors become 500s.
var responder = apierrors.NewResponder("",
	apierrors.WhenIs(ordersports.ErrNotFound, apierrors.ErrNotFound),
	apierrors.WhenIs(ordersapp.ErrProductNotFound, apierrors.ErrNotFound),
	apierrors.WhenIs(productsports.ErrNotFound, apierrors.ErrNotFound),
	apierrors.WhenIs(ordersapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(productsapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(productsapp.ErrConflict, apierrors.ErrConflict),
	apierrors.WhenIs(ordersports.ErrIdempotencyConflict, apierrors.ErrConflict),
)
