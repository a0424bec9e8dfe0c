//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ammarques/stockroom-be/internal/adapters/db"
	redis_a "github.com/ammarques/stockroom-be/internal/adapters/redis_adapter"
	"github.com/ammarques/stockroom-be/internal/adapters/storage"
	"github.com/ammarques/stockroom-be/internal/core/services"
	"github.com/ammarques/stockroom-be/internal/handlers"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
	"github.com/ammarques/stockroom-be/test/helpers"
)

type StockroomE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *StockroomE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *StockroomE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *StockroomE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *StockroomE2ESuite) TestCatalogWorkflow() {
	// 1. Generate a code for the new item
	resp := s.makeRequest("GET", "/items/next-code?prefix=MAT", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var codeResponse map[string]string
	s.decodeResponse(resp, &codeResponse)
	s.Equal("MAT-001", codeResponse["code"])

	// 2. Create an item
	createReq := map[string]interface{}{
		"name":     "Papel A4",
		"code":     codeResponse["code"],
		"type":     "consumable",
		"quantity": 0,
		"unit":     "resma",
		"category": "Escritorio",
	}

	resp = s.makeRequest("POST", "/items", createReq)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decodeResponse(resp, &created)
	itemID := created["id"].(string)
	s.NotEmpty(itemID)
	s.Equal(storage.PlaceholderImageURL, created["image_url"])

	// 3. Retrieve it
	resp = s.makeRequest("GET", "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var retrieved map[string]interface{}
	s.decodeResponse(resp, &retrieved)
	s.Equal("Papel A4", retrieved["name"])
	s.Equal("papel a4", retrieved["name_lowercase"])

	// 4. Edit it; the audit trail should pick up the change
	newName := "Papel A4 Reciclado"
	resp = s.makeRequest("PATCH", "/items/"+itemID, map[string]interface{}{
		"name": newName,
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.makeRequest("GET", fmt.Sprintf("/items/%s/movements", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var history map[string]interface{}
	s.decodeResponse(resp, &history)
	movements := history["movements"].([]interface{})
	s.Require().Len(movements, 1)
	audit := movements[0].(map[string]interface{})
	s.Equal("audit", audit["type"])
	s.Contains(audit["changes"], "Papel A4 -> Papel A4 Reciclado")

	// 5. Search finds it by name prefix
	resp = s.makeRequest("GET", "/items?search=papel", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var page map[string]interface{}
	s.decodeResponse(resp, &page)
	s.Len(page["items"].([]interface{}), 1)

	// 6. Delete it
	resp = s.makeRequest("DELETE", "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.makeRequest("GET", "/items/"+itemID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *StockroomE2ESuite) TestLedgerWorkflow() {
	itemID := s.createItem("Detergente", "LMP-001", "unidade")

	// 1. Receive stock
	resp := s.makeRequest("POST", "/movements/entry", map[string]interface{}{
		"supplier": "Distribuidora Central",
		"invoice":  "NF-8841",
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 30},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 2. Issue part of it
	resp = s.makeRequest("POST", "/movements/exit", map[string]interface{}{
		"department": "Limpeza",
		"requester":  map[string]string{"primary": "requester@stockroom.app"},
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 10},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 3. Quantity reflects both movements
	resp = s.makeRequest("GET", "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	s.Equal(float64(20), item["quantity"])

	// 4. Over-issuing aborts the whole batch
	resp = s.makeRequest("POST", "/movements/exit", map[string]interface{}{
		"department": "Limpeza",
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 500},
		},
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	var conflict map[string]interface{}
	s.decodeResponse(resp, &conflict)
	s.Equal(float64(500), conflict["requested"])
	s.Equal(float64(20), conflict["available"])

	// 5. Stock is untouched after the aborted exit
	resp = s.makeRequest("GET", "/items/"+itemID, nil)
	s.decodeResponse(resp, &item)
	s.Equal(float64(20), item["quantity"])

	// 6. Returns are always accepted
	resp = s.makeRequest("POST", "/movements/return", map[string]interface{}{
		"department": "Limpeza",
		"reason":     "unused supplies",
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 5},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 7. The ledger lists all three movements newest first
	resp = s.makeRequest("GET", "/movements", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var page map[string]interface{}
	s.decodeResponse(resp, &page)
	s.Len(page["movements"].([]interface{}), 3)
}

func (s *StockroomE2ESuite) TestRequestWorkflow() {
	itemID := s.createItem("Caneta Azul", "ESC-001", "unidade")

	// Seed stock for the fulfillment exit
	resp := s.makeRequest("POST", "/movements/entry", map[string]interface{}{
		"supplier": "Papelaria Sul",
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 50},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 1. Submit a consumption request
	resp = s.makeRequest("POST", "/requests", map[string]interface{}{
		"requester":  map[string]string{"primary": "requester@stockroom.app"},
		"department": "Secretaria",
		"purpose":    "school year kickoff",
		"items": []map[string]interface{}{
			{"item_id": itemID, "name": "Caneta Azul", "quantity": 12, "unit": "unidade"},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var submitted map[string]string
	s.decodeResponse(resp, &submitted)
	requestID := submitted["id"]
	s.NotEmpty(requestID)

	// 2. It shows up in the pending queue
	resp = s.makeRequest("GET", "/requests/pending", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var pending map[string]interface{}
	s.decodeResponse(resp, &pending)
	s.Len(pending["requests"].([]interface{}), 1)

	// 3. Approve it
	resp = s.makeRequest("POST", "/requests/"+requestID+"/approve", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var approved map[string]interface{}
	s.decodeResponse(resp, &approved)
	s.Equal("approved", approved["status"])
	s.Equal("tester@stockroom.app", approved["decided_by"])

	// 4. Approving twice is refused
	resp = s.makeRequest("POST", "/requests/"+requestID+"/approve", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// 5. The correlated exit fulfills the request
	resp = s.makeRequest("POST", "/movements/exit", map[string]interface{}{
		"department": "Secretaria",
		"request_id": requestID,
		"requester":  map[string]string{"primary": "requester@stockroom.app"},
		"items": []map[string]interface{}{
			{"item_id": itemID, "quantity": 12},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest("GET", "/requests/"+requestID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var fulfilled map[string]interface{}
	s.decodeResponse(resp, &fulfilled)
	s.NotNil(fulfilled["fulfilled_at"])

	// 6. A second request gets rejected and lands in history
	resp = s.makeRequest("POST", "/requests", map[string]interface{}{
		"requester":  map[string]string{"primary": "requester@stockroom.app"},
		"department": "Secretaria",
		"items": []map[string]interface{}{
			{"item_id": itemID, "name": "Caneta Azul", "quantity": 200, "unit": "unidade"},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &submitted)

	resp = s.makeRequest("POST", "/requests/"+submitted["id"]+"/reject", map[string]interface{}{
		"reason": "out of budget",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest("GET", "/requests/history", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var historyPage map[string]interface{}
	s.decodeResponse(resp, &historyPage)
	s.Len(historyPage["requests"].([]interface{}), 2)
}

func (s *StockroomE2ESuite) TestAnonymousWritesAreRejected() {
	req, err := http.NewRequest("POST", s.baseURL+"/items", bytes.NewReader([]byte(`{}`)))
	s.NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	s.NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *StockroomE2ESuite) TestConcurrentEntries() {
	itemID := s.createItem("Copo Descartavel", "COP-001", "pacote")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp := s.makeRequest("POST", "/movements/entry", map[string]interface{}{
				"supplier": "Distribuidora Central",
				"items": []map[string]interface{}{
					{"item_id": itemID, "quantity": 10},
				},
			})
			s.Equal(http.StatusCreated, resp.StatusCode)
			resp.Body.Close()
		}()
	}
	wg.Wait()

	resp := s.makeRequest("GET", "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	s.Equal(float64(100), item["quantity"])
}

func (s *StockroomE2ESuite) TestHealthCheck() {
	resp := s.makeRequest("GET", "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health["status"])
	s.Contains(health, "services")
}

// Helper methods

func (s *StockroomE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()

	items := db.NewItemRepository(s.testDB.Database, logger)
	movements := db.NewMovementRepository(s.testDB.Database, logger)
	ledger := db.NewLedgerRepository(s.testDB.Database, logger)
	requests := db.NewRequestRepository(s.testDB.Database, logger)

	blobs := storage.NewImageStore(&memoryStorage{objects: map[string][]byte{}}, logger)

	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, logger)
	cacheManager := redis_a.NewCacheManager(cache, logger)

	catalogService := services.NewCatalogService(items, movements, blobs, logger)
	ledgerService := services.NewLedgerService(ledger, movements, requests, logger)
	requestService := services.NewRequestService(requests, logger)

	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, cacheManager, logger)
	requestHandler := handlers.NewRequestHandler(requestService, logger)
	healthHandler := handlers.NewHealthHandler(s.testDB.Database, s.testRedis.Client, nil, helpers.LoadTestConfig(), logger)

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Session(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	mux.HandleFunc("GET /api/v1/items", catalogHandler.ListItems)
	mux.HandleFunc("GET /api/v1/items/{id}", catalogHandler.GetItem)
	mux.Handle("POST /api/v1/items", authed(catalogHandler.CreateItem))
	mux.Handle("PATCH /api/v1/items/{id}", authed(catalogHandler.UpdateItem))
	mux.Handle("DELETE /api/v1/items/{id}", authed(catalogHandler.DeleteItem))
	mux.HandleFunc("GET /api/v1/items/next-code", catalogHandler.NextCode)

	mux.Handle("POST /api/v1/movements/entry", authed(ledgerHandler.RecordEntry))
	mux.Handle("POST /api/v1/movements/exit", authed(ledgerHandler.RecordExit))
	mux.Handle("POST /api/v1/movements/return", authed(ledgerHandler.RecordReturn))
	mux.HandleFunc("GET /api/v1/movements", ledgerHandler.ListMovements)
	mux.HandleFunc("GET /api/v1/items/{id}/movements", ledgerHandler.ItemMovements)
	mux.HandleFunc("GET /api/v1/items/{id}/batches", ledgerHandler.ItemBatches)

	mux.Handle("POST /api/v1/requests", authed(requestHandler.Submit))
	mux.HandleFunc("GET /api/v1/requests/pending", requestHandler.ListPending)
	mux.Handle("GET /api/v1/requests/history", authed(requestHandler.History))
	mux.HandleFunc("GET /api/v1/requests/{id}", requestHandler.Get)
	mux.Handle("POST /api/v1/requests/{id}/approve", authed(requestHandler.Approve))
	mux.Handle("POST /api/v1/requests/{id}/reject", authed(requestHandler.Reject))

	return httptest.NewServer(mux)
}

func (s *StockroomE2ESuite) createItem(name, code, unit string) string {
	resp := s.makeRequest("POST", "/items", map[string]interface{}{
		"name":     name,
		"code":     code,
		"type":     "consumable",
		"quantity": 0,
		"unit":     unit,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decodeResponse(resp, &created)
	return created["id"].(string)
}

func (s *StockroomE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.NoError(err)

	sess := helpers.TestSession()
	req.Header.Set(middleware.HeaderActorID, sess.ActorID)
	req.Header.Set(middleware.HeaderActorRole, sess.Role)
	req.Header.Set(middleware.HeaderTenantID, sess.TenantID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.NoError(err)

	return resp
}

func (s *StockroomE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(v)
	s.NoError(err)
}

// memoryStorage keeps uploaded blobs in a map so the suite never reaches S3.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()

	return "memory://" + key, nil
}

func (m *memoryStorage) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key], nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "memory://" + key, nil
}

func (m *memoryStorage) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func TestStockroomE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(StockroomE2ESuite))
}
