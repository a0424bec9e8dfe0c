// internal/handlers/catalog_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammarques/stockroom-be/internal/adapters/storage"
	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/handlers"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
	"github.com/ammarques/stockroom-be/test/helpers"
	"github.com/ammarques/stockroom-be/test/mocks"
)

func newCatalogHandler(t *testing.T) (*handlers.CatalogHandler, *mocks.MockCatalogService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockCatalogService(ctrl)
	return handlers.NewCatalogHandler(service, helpers.TestLogger()), service
}

// sessionRequest builds a request already carrying the test session, the
// state the session middleware leaves behind.
func sessionRequest(method, target string, body interface{}) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithSession(context.Background(), helpers.TestSession())
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestCatalogHandler_GetItem(t *testing.T) {
	t.Run("returns item", func(t *testing.T) {
		handler, service := newCatalogHandler(t)
		item := helpers.CreateTestItem()

		service.EXPECT().GetItem(gomock.Any(), item.ID).Return(item, nil)

		req := sessionRequest(http.MethodGet, "/api/v1/items/"+item.ID.String(), nil)
		req.SetPathValue("id", item.ID.String())
		rec := httptest.NewRecorder()

		handler.GetItem(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got domain.Item
		decodeBody(t, rec, &got)
		assert.Equal(t, item.Name, got.Name)
	})

	t.Run("invalid id is a bad request", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)

		req := sessionRequest(http.MethodGet, "/api/v1/items/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()

		handler.GetItem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing item maps to 404", func(t *testing.T) {
		handler, service := newCatalogHandler(t)
		id := uuid.New()

		service.EXPECT().GetItem(gomock.Any(), id).
			Return(nil, &domain.NotFoundError{Entity: "item", ID: id})

		req := sessionRequest(http.MethodGet, "/api/v1/items/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.GetItem(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalogHandler_ListItems(t *testing.T) {
	handler, service := newCatalogHandler(t)

	service.EXPECT().
		ListItemsPage(gomock.Any(), domain.ItemFilter{SearchTerm: "papel"}, 10, "abc").
		Return(&ports.ItemPage{
			Items:      helpers.CreateTestItems(2),
			PageSize:   10,
			NextCursor: "def",
		}, nil)

	req := sessionRequest(http.MethodGet, "/api/v1/items?search=papel&page_size=10&cursor=abc", nil)
	rec := httptest.NewRecorder()

	handler.ListItems(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page ports.ItemPage
	decodeBody(t, rec, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "def", page.NextCursor)
}

func TestCatalogHandler_CreateItem(t *testing.T) {
	t.Run("creates item without image", func(t *testing.T) {
		handler, service := newCatalogHandler(t)

		service.EXPECT().
			UploadImage(gomock.Any(), "", "", "").
			Return(storage.PlaceholderImageURL, nil)
		service.EXPECT().
			CreateItem(gomock.Any(), helpers.TestSession(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Session, item *domain.Item) (uuid.UUID, error) {
				assert.Equal(t, "Papel A4", item.Name)
				assert.Equal(t, storage.PlaceholderImageURL, item.ImageURL)
				item.ID = uuid.New()
				return item.ID, nil
			})

		req := sessionRequest(http.MethodPost, "/api/v1/items", handlers.CreateItemRequest{
			Name:     "Papel A4",
			Code:     "MAT-001",
			Quantity: 10,
			Unit:     "resma",
		})
		rec := httptest.NewRecorder()

		handler.CreateItem(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader([]byte("{")))
		req = req.WithContext(middleware.WithSession(req.Context(), helpers.TestSession()))
		rec := httptest.NewRecorder()

		handler.CreateItem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upload failure maps to 502", func(t *testing.T) {
		handler, service := newCatalogHandler(t)

		service.EXPECT().
			UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", domain.ErrUploadFailure)

		req := sessionRequest(http.MethodPost, "/api/v1/items", handlers.CreateItemRequest{
			Name:  "Papel A4",
			Unit:  "resma",
			Image: "not-base64",
		})
		rec := httptest.NewRecorder()

		handler.CreateItem(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCatalogHandler_UpdateItem(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		handler, service := newCatalogHandler(t)
		id := uuid.New()
		newName := "Papel A4 Reciclado"

		service.EXPECT().
			UpdateItem(gomock.Any(), helpers.TestSession(), id, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Session, _ uuid.UUID, update domain.ItemUpdate) (*domain.Item, error) {
				require.NotNil(t, update.Name)
				assert.Equal(t, newName, *update.Name)
				assert.Nil(t, update.Quantity)
				return helpers.CreateTestItem(func(i *domain.Item) { i.Name = newName }), nil
			})

		req := sessionRequest(http.MethodPatch, "/api/v1/items/"+id.String(), handlers.UpdateItemRequest{
			Name: &newName,
		})
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.UpdateItem(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty update maps to 400", func(t *testing.T) {
		handler, service := newCatalogHandler(t)
		id := uuid.New()

		service.EXPECT().
			UpdateItem(gomock.Any(), gomock.Any(), id, gomock.Any()).
			Return(nil, &domain.ValidationError{Field: "update", Reason: "no fields given"})

		req := sessionRequest(http.MethodPatch, "/api/v1/items/"+id.String(), handlers.UpdateItemRequest{})
		req.SetPathValue("id", id.String())
		rec := httptest.NewRecorder()

		handler.UpdateItem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalogHandler_DeleteItem(t *testing.T) {
	handler, service := newCatalogHandler(t)
	id := uuid.New()

	service.EXPECT().DeleteItem(gomock.Any(), helpers.TestSession(), id).Return(nil)

	req := sessionRequest(http.MethodDelete, "/api/v1/items/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	handler.DeleteItem(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, id.String(), body["item_id"])
}

func TestCatalogHandler_NextCode(t *testing.T) {
	t.Run("returns generated code", func(t *testing.T) {
		handler, service := newCatalogHandler(t)

		service.EXPECT().NextCode(gomock.Any(), "MAT").Return("MAT-042", nil)

		req := sessionRequest(http.MethodGet, "/api/v1/items/next-code?prefix=MAT", nil)
		rec := httptest.NewRecorder()

		handler.NextCode(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "MAT-042", body["code"])
	})

	t.Run("missing prefix maps to 400", func(t *testing.T) {
		handler, service := newCatalogHandler(t)

		service.EXPECT().NextCode(gomock.Any(), "").
			Return("", &domain.ValidationError{Field: "prefix", Reason: "is required"})

		req := sessionRequest(http.MethodGet, "/api/v1/items/next-code", nil)
		rec := httptest.NewRecorder()

		handler.NextCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
