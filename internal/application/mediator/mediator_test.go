package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
)

type pingQuery struct{ Name string }

func TestMediator_SendDispatchesThroughMiddleware(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var order []string
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(_ context.Context, req mediator.Request) (mediator.Response, error) {
			order = append(order, "handler")
			return "pong " + req.(*pingQuery).Name, nil
		})))
	m.Use(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "outer")
		return next(ctx, req)
	})
	m.Use(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "inner")
		return next(ctx, req)
	})

	// Act
	resp, err := m.Send(context.Background(), &pingQuery{Name: "ada"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong ada", resp)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestMediator_Errors(t *testing.T) {
	m := mediator.NewMediator()
	h := mediator.HandlerFunc(func(context.Context, mediator.Request) (mediator.Response, error) { return nil, nil })
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, h))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, h))
	_, err := m.Send(context.Background(), "unregistered")
	assert.Error(t, err)
	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}
