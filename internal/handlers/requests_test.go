// internal/handlers/requests_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/handlers"
	"github.com/ammarques/stockroom-be/test/helpers"
	"github.com/ammarques/stockroom-be/test/mocks"
)

func newRequestHandler(t *testing.T) (*handlers.RequestHandler, *mocks.MockRequestService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockRequestService(ctrl)
	return handlers.NewRequestHandler(service, helpers.TestLogger()), service
}

func TestRequestHandler_Submit(t *testing.T) {
	t.Run("submits request", func(t *testing.T) {
		handler, service := newRequestHandler(t)
		id := uuid.New()

		service.EXPECT().
			Submit(gomock.Any(), helpers.TestSession(), gomock.Any()).
			Return(id, nil)

		req := sessionRequest(http.MethodPost, "/api/v1/requests", handlers.SubmitRequest{
			Requester:  domain.Actor{Primary: "requester@stockroom.app"},
			Department: "Secretaria",
			Items: []domain.RequestItem{
				{ItemID: uuid.New(), Name: "Papel A4", Quantity: 2, Unit: "resma"},
			},
		})
		rec := httptest.NewRecorder()

		handler.Submit(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, id.String(), body["id"])
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		handler, service := newRequestHandler(t)

		service.EXPECT().
			Submit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(uuid.Nil, &domain.ValidationError{Field: "items", Reason: "at least one line item is required"})

		req := sessionRequest(http.MethodPost, "/api/v1/requests", handlers.SubmitRequest{
			Requester:  domain.Actor{Primary: "requester@stockroom.app"},
			Department: "Secretaria",
		})
		rec := httptest.NewRecorder()

		handler.Submit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestHandler_Approve(t *testing.T) {
	t.Run("approves request", func(t *testing.T) {
		handler, service := newRequestHandler(t)
		request := helpers.CreateTestRequest(func(r *domain.Request) {
			r.Status = domain.RequestApproved
			r.DecidedBy = "tester@stockroom.app"
		})

		service.EXPECT().
			Approve(gomock.Any(), helpers.TestSession(), request.ID).
			Return(request, nil)

		req := sessionRequest(http.MethodPost, "/api/v1/requests/"+request.ID.String()+"/approve", nil)
		req.SetPathValue("id", request.ID.String())
		rec := httptest.NewRecorder()

		handler.Approve(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body domain.Request
		decodeBody(t, rec, &body)
		assert.Equal(t, domain.RequestApproved, body.Status)
	})

	t.Run("already decided maps to 400", func(t *testing.T) {
		handler, service := newRequestHandler(t)
		id := uuid.New()

		service.EXPECT().
			Approve(gomock.Any(), gomock.Any(), id).
			Return(nil, &domain.ValidationError{Field: "status", Reason: "request is already rejected"})

		req := sessionRequest(http.MethodPost, "/api/v1/requests/"+id.String()+"/approve", nil)
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.Approve(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestHandler_Reject(t *testing.T) {
	t.Run("rejects with reason", func(t *testing.T) {
		handler, service := newRequestHandler(t)
		request := helpers.CreateTestRequest(func(r *domain.Request) {
			r.Status = domain.RequestRejected
			r.RejectionReason = "out of budget"
		})

		service.EXPECT().
			Reject(gomock.Any(), helpers.TestSession(), request.ID, "out of budget").
			Return(request, nil)

		req := sessionRequest(http.MethodPost, "/api/v1/requests/"+request.ID.String()+"/reject",
			handlers.RejectRequest{Reason: "out of budget"})
		req.SetPathValue("id", request.ID.String())
		rec := httptest.NewRecorder()

		handler.Reject(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown request maps to 404", func(t *testing.T) {
		handler, service := newRequestHandler(t)
		id := uuid.New()

		service.EXPECT().
			Reject(gomock.Any(), gomock.Any(), id, gomock.Any()).
			Return(nil, &domain.NotFoundError{Entity: "request", ID: id})

		req := sessionRequest(http.MethodPost, "/api/v1/requests/"+id.String()+"/reject",
			handlers.RejectRequest{Reason: "duplicate"})
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.Reject(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestHandler_ListPending(t *testing.T) {
	handler, service := newRequestHandler(t)

	service.EXPECT().
		ListPending(gomock.Any()).
		Return([]domain.Request{*helpers.CreateTestRequest()}, nil)

	req := sessionRequest(http.MethodGet, "/api/v1/requests/pending", nil)
	rec := httptest.NewRecorder()

	handler.ListPending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]domain.Request
	decodeBody(t, rec, &body)
	require.Len(t, body["requests"], 1)
	assert.Equal(t, domain.RequestPending, body["requests"][0].Status)
}

func TestRequestHandler_History(t *testing.T) {
	handler, service := newRequestHandler(t)

	service.EXPECT().
		History(gomock.Any(), helpers.TestSession(), 15, "tok").
		Return(&ports.RequestPage{
			Requests:   []domain.Request{*helpers.CreateTestRequest()},
			PageSize:   15,
			NextCursor: "",
		}, nil)

	req := sessionRequest(http.MethodGet, "/api/v1/requests/history?page_size=15&cursor=tok", nil)
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page ports.RequestPage
	decodeBody(t, rec, &page)
	assert.Len(t, page.Requests, 1)
	assert.Empty(t, page.NextCursor)
}
