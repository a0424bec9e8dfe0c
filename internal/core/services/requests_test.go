// internal/core/services/requests_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/services"
	"github.com/ammarques/stockroom-be/test/helpers"
	"github.com/ammarques/stockroom-be/test/mocks"
)

func newRequestService(t *testing.T) (*services.RequestService, *mocks.MockRequestRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	requests := mocks.NewMockRequestRepository(ctrl)

	svc := services.NewRequestService(requests, helpers.TestLogger())
	return svc, requests
}

func TestRequestService_Submit(t *testing.T) {
	tests := []struct {
		name          string
		request       *domain.Request
		setupMocks    func(requests *mocks.MockRequestRepository)
		expectedError bool
		errorContains string
	}{
		{
			name: "stores pending request with defaults",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.ID = uuid.Nil
				r.Status = ""
				r.SubmittedAt = time.Time{}
			}),
			setupMocks: func(requests *mocks.MockRequestRepository) {
				requests.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *domain.Request) error {
						assert.NotEqual(t, uuid.Nil, r.ID)
						assert.Equal(t, domain.RequestPending, r.Status)
						assert.False(t, r.SubmittedAt.IsZero())
						return nil
					})
			},
		},
		{
			name: "fills tenant from session",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.TenantID = ""
			}),
			setupMocks: func(requests *mocks.MockRequestRepository) {
				requests.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *domain.Request) error {
						assert.Equal(t, "test-tenant", r.TenantID)
						return nil
					})
			},
		},
		{
			name: "rejects missing requester",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.Requester = domain.Actor{}
			}),
			expectedError: true,
			errorContains: "requester",
		},
		{
			name: "rejects missing department",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.Department = ""
			}),
			expectedError: true,
			errorContains: "department",
		},
		{
			name: "rejects empty line items",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.Items = nil
			}),
			expectedError: true,
			errorContains: "at least one line item",
		},
		{
			name: "rejects non-positive line quantity",
			request: helpers.CreateTestRequest(func(r *domain.Request) {
				r.Items[0].Quantity = 0
			}),
			expectedError: true,
			errorContains: "quantity must be positive",
		},
		{
			name:    "propagates repository failure",
			request: helpers.CreateTestRequest(),
			setupMocks: func(requests *mocks.MockRequestRepository) {
				requests.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			expectedError: true,
			errorContains: "failed to save request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, requests := newRequestService(t)
			if tt.setupMocks != nil {
				tt.setupMocks(requests)
			}

			id, err := svc.Submit(context.Background(), helpers.TestSession(), tt.request)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Equal(t, uuid.Nil, id)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, id)
		})
	}
}

func TestRequestService_Submit_RequiresSession(t *testing.T) {
	svc, _ := newRequestService(t)

	// An anonymous session never reaches the repository
	id, err := svc.Submit(context.Background(), domain.Session{}, helpers.CreateTestRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "actor_id")
	assert.Equal(t, uuid.Nil, id)
}

func TestRequestService_Approve(t *testing.T) {
	t.Run("approves pending request", func(t *testing.T) {
		svc, requests := newRequestService(t)
		pending := helpers.CreateTestRequest()

		requests.EXPECT().FindByID(gomock.Any(), pending.ID).Return(pending, nil)
		requests.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *domain.Request) error {
				assert.Equal(t, domain.RequestApproved, r.Status)
				assert.Equal(t, "tester@stockroom.app", r.DecidedBy)
				require.NotNil(t, r.DecidedAt)
				return nil
			})

		approved, err := svc.Approve(context.Background(), helpers.TestSession(), pending.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestApproved, approved.Status)
		assert.True(t, approved.AwaitingFulfillment())
	})

	t.Run("unknown request yields not found", func(t *testing.T) {
		svc, requests := newRequestService(t)
		id := uuid.New()

		requests.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		_, err := svc.Approve(context.Background(), helpers.TestSession(), id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("rejected request admits no transition", func(t *testing.T) {
		svc, requests := newRequestService(t)
		rejected := helpers.CreateTestRequest(func(r *domain.Request) {
			r.Status = domain.RequestRejected
		})

		requests.EXPECT().FindByID(gomock.Any(), rejected.ID).Return(rejected, nil)

		_, err := svc.Approve(context.Background(), helpers.TestSession(), rejected.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Contains(t, err.Error(), "already rejected")
	})

	t.Run("rejects anonymous session", func(t *testing.T) {
		svc, _ := newRequestService(t)

		_, err := svc.Approve(context.Background(), domain.Session{}, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestRequestService_Reject(t *testing.T) {
	t.Run("rejects pending request with reason", func(t *testing.T) {
		svc, requests := newRequestService(t)
		pending := helpers.CreateTestRequest()

		requests.EXPECT().FindByID(gomock.Any(), pending.ID).Return(pending, nil)
		requests.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *domain.Request) error {
				assert.Equal(t, domain.RequestRejected, r.Status)
				assert.Equal(t, "out of budget", r.RejectionReason)
				return nil
			})

		rejected, err := svc.Reject(context.Background(), helpers.TestSession(), pending.ID, "out of budget")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestRejected, rejected.Status)
	})

	t.Run("empty reason is refused", func(t *testing.T) {
		svc, requests := newRequestService(t)
		pending := helpers.CreateTestRequest()

		requests.EXPECT().FindByID(gomock.Any(), pending.ID).Return(pending, nil)

		_, err := svc.Reject(context.Background(), helpers.TestSession(), pending.ID, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Contains(t, err.Error(), "rejection_reason")
	})

	t.Run("approved request admits no transition", func(t *testing.T) {
		svc, requests := newRequestService(t)
		approved := helpers.CreateTestRequest(func(r *domain.Request) {
			r.Status = domain.RequestApproved
		})

		requests.EXPECT().FindByID(gomock.Any(), approved.ID).Return(approved, nil)

		_, err := svc.Reject(context.Background(), helpers.TestSession(), approved.ID, "too late")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already approved")
	})
}

func TestRequestService_ListPending(t *testing.T) {
	svc, requests := newRequestService(t)

	pending := []domain.Request{*helpers.CreateTestRequest(), *helpers.CreateTestRequest()}
	requests.EXPECT().FindPending(gomock.Any()).Return(pending, nil)

	got, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRequestService_History(t *testing.T) {
	t.Run("pages the session tenant's history", func(t *testing.T) {
		svc, requests := newRequestService(t)

		processed := []domain.Request{*helpers.CreateTestRequest(func(r *domain.Request) {
			r.Status = domain.RequestRejected
			r.RejectionReason = "duplicate"
		})}
		requests.EXPECT().
			FindProcessedPage(gomock.Any(), "test-tenant", 20, "").
			Return(processed, "next", nil)

		page, err := svc.History(context.Background(), helpers.TestSession(), 0, "")
		require.NoError(t, err)
		assert.Len(t, page.Requests, 1)
		assert.Equal(t, "next", page.NextCursor)
	})

	t.Run("requires a tenant scope", func(t *testing.T) {
		svc, _ := newRequestService(t)

		sess := helpers.TestSession()
		sess.TenantID = ""

		_, err := svc.History(context.Background(), sess, 10, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Contains(t, err.Error(), "tenant_id")
	})
}
