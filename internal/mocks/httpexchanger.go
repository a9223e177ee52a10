package mocks

import (
	"context"

	"github.com/ooni/probe-bouncer/internal/model"
)

// HTTPExchanger is a mockable [model.HTTPExchanger].
type HTTPExchanger struct {
	MockExchange func(ctx context.Context, req *model.HTTPExchangeRequest) *model.HTTPExchangeResponse
}

var _ model.HTTPExchanger = &HTTPExchanger{}

// Exchange calls MockExchange.
func (e *HTTPExchanger) Exchange(ctx context.Context, req *model.HTTPExchangeRequest) *model.HTTPExchangeResponse {
	return e.MockExchange(ctx, req)
}
