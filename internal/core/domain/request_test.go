package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

func pendingRequest() *domain.Request {
	r := &domain.Request{
		TenantID:   "secretaria-saude",
		Requester:  domain.Actor{Primary: "João Silva", Secondary: "1234"},
		Department: "Saúde",
		Purpose:    "monthly restock",
		Items: []domain.RequestItem{
			{ItemID: uuid.New(), Name: "Luva Cirúrgica", Quantity: 10, Unit: "pair"},
		},
	}
	r.PrepareForStorage()
	return r
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Request)
		errorMsg string
	}{
		{name: "valid", mutate: func(r *domain.Request) {}},
		{
			name:     "missing_requester",
			mutate:   func(r *domain.Request) { r.Requester = domain.Actor{} },
			errorMsg: "invalid requester",
		},
		{
			name:     "missing_department",
			mutate:   func(r *domain.Request) { r.Department = "" },
			errorMsg: "invalid department",
		},
		{
			name:     "no_line_items",
			mutate:   func(r *domain.Request) { r.Items = nil },
			errorMsg: "invalid items",
		},
		{
			name:     "zero_line_quantity",
			mutate:   func(r *domain.Request) { r.Items[0].Quantity = 0 },
			errorMsg: "line quantity must be positive",
		},
		{
			name:     "missing_line_item_id",
			mutate:   func(r *domain.Request) { r.Items[0].ItemID = uuid.Nil },
			errorMsg: "line item id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pendingRequest()
			tt.mutate(r)

			err := r.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.ErrorIs(t, err, domain.ErrValidation)
			}
		})
	}
}

func TestRequest_Approve(t *testing.T) {
	r := pendingRequest()
	now := time.Now()

	require.NoError(t, r.Approve("operator@prefeitura.gov.br", now))
	assert.Equal(t, domain.RequestApproved, r.Status)
	assert.Equal(t, "operator@prefeitura.gov.br", r.DecidedBy)
	require.NotNil(t, r.DecidedAt)
	assert.True(t, r.AwaitingFulfillment())

	// Terminal: a second decision fails
	err := r.Approve("operator@prefeitura.gov.br", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "already approved")

	err = r.Reject("operator@prefeitura.gov.br", "too late", now)
	assert.Error(t, err)
}

func TestRequest_Reject(t *testing.T) {
	r := pendingRequest()
	now := time.Now()

	// Empty reason is refused before anything is stamped
	err := r.Reject("operator@prefeitura.gov.br", "", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.RequestPending, r.Status)

	require.NoError(t, r.Reject("operator@prefeitura.gov.br", "out of budget", now))
	assert.Equal(t, domain.RequestRejected, r.Status)
	assert.Equal(t, "out of budget", r.RejectionReason)
	assert.False(t, r.AwaitingFulfillment())

	// Terminal
	assert.Error(t, r.Approve("operator@prefeitura.gov.br", now))
}

func TestRequest_MarkFulfilled(t *testing.T) {
	r := pendingRequest()
	now := time.Now()

	// Only approved requests can be fulfilled
	err := r.MarkFulfilled(now)
	require.Error(t, err)

	require.NoError(t, r.Approve("operator@prefeitura.gov.br", now))
	require.NoError(t, r.MarkFulfilled(now))
	assert.False(t, r.AwaitingFulfillment())

	// Fulfillment is once only
	assert.Error(t, r.MarkFulfilled(now))
}
