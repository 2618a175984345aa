package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/inventory/backend/internal/application/catalog"
	appinv "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/domain/catalog"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/infrastructure/persistence"
	"github.com/inventory/backend/internal/interfaces/http/middleware"
	"github.com/inventory/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// localLockManager is an in-process stand-in for the Redis lock
type localLockManager struct {
	mu   sync.Mutex
	held map[string]bool
}

func newLocalLockManager() *localLockManager {
	return &localLockManager{held: make(map[string]bool)}
}

func (l *localLockManager) Acquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return "", false, nil
	}
	l.held[key] = true
	return uuid.NewString(), true, nil
}

func (l *localLockManager) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

type fixture struct {
	router    *gin.Engine
	db        *gorm.DB
	productID uuid.UUID
	storeID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.SetupValidator())

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// the in-memory database lives in a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{}, &catalog.Store{},
		&inventory.InventoryRecord{}, &inventory.Reservation{}, &inventory.EventRecord{},
	))

	product := catalog.NewProduct("SKU-100", "Widget", "", "gadgets", 1999)
	store := catalog.NewStore("Main Street", "1 Main St", "Springfield", "US", "62701")
	require.NoError(t, db.Create(product).Error)
	require.NoError(t, db.Create(store).Error)

	rec, err := inventory.NewInventoryRecord(product.ID, store.ID, 50)
	require.NoError(t, err)
	require.NoError(t, db.Create(rec).Error)

	scope := persistence.NewGormTransactionScope(db)
	engine := appinv.NewReservationService(scope, newLocalLockManager(), nil, zap.NewNop(), appinv.Options{})
	queries := appinv.NewQueryService(
		persistence.NewGormInventoryRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormStoreRepository(db),
	)
	catalogSvc := appcatalog.NewService(
		persistence.NewGormProductRepository(db),
		persistence.NewGormStoreRepository(db),
	)

	r := gin.New()
	router.NewRouter(r).
		Register(NewInventoryHandler(engine, queries, catalogSvc)).
		Register(NewStoreHandler(catalogSvc, queries)).
		Setup()

	return &fixture{router: r, db: db, productID: product.ID, storeID: store.ID}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) reserve(t *testing.T, quantity int) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
		"order_id":   "ORDER-1",
		"product_id": f.productID.String(),
		"store_id":   f.storeID.String(),
		"quantity":   quantity,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	res := data["reservation"].(map[string]any)
	return res["reservation_id"].(string)
}

func TestInventoryHandler_Reserve(t *testing.T) {
	t.Run("reserves stock", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "ORD-2024-001",
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   5,
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "Stock reserved successfully", data["message"])
		res := data["reservation"].(map[string]any)
		assert.Equal(t, "PENDING", res["status"])
		assert.Equal(t, float64(5), res["quantity"])
	})

	t.Run("rejects lowercase order id", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "order-1",
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   5,
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decode(t, w)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "VALIDATION_ERROR", errInfo["code"])
	})

	t.Run("rejects uppercase uuid", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "ORDER-1",
			"product_id": "A3BB189E-8BF9-3888-9912-ACE4E6543002",
			"store_id":   f.storeID.String(),
			"quantity":   5,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects quantity above cap", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "ORDER-1",
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   101,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("insufficient stock is 400", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "ORDER-1",
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   60,
		})

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		body := decode(t, w)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "INSUFFICIENT_STOCK", errInfo["code"])
	})

	t.Run("unknown pair is 404", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/reserve", gin.H{
			"order_id":   "ORDER-1",
			"product_id": uuid.NewString(),
			"store_id":   f.storeID.String(),
			"quantity":   1,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInventoryHandler_Lifecycle(t *testing.T) {
	t.Run("confirm then consume", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t, 5)

		w := f.do(t, http.MethodPost, "/inventory/confirm", gin.H{"reservation_id": id, "order_id": "ORDER-1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Reservation confirmed successfully", data["message"])

		w = f.do(t, http.MethodPost, "/inventory/consume", gin.H{"reservation_id": id})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data = decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Reservation consumed successfully", data["message"])

		w = f.do(t, http.MethodGet, "/inventory/stock/"+f.productID.String()+"/"+f.storeID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		stock := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(45), stock["total_quantity"])
		assert.Equal(t, float64(45), stock["available_quantity"])
		assert.Equal(t, float64(0), stock["reserved_quantity"])
	})

	t.Run("cancel releases stock", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t, 5)

		w := f.do(t, http.MethodPost, "/inventory/cancel/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Reservation cancelled successfully", data["message"])

		w = f.do(t, http.MethodGet, "/inventory/stock/"+f.productID.String()+"/"+f.storeID.String(), nil)
		stock := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(50), stock["available_quantity"])
	})

	t.Run("consume before confirm is 409", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t, 5)

		w := f.do(t, http.MethodPost, "/inventory/consume", gin.H{"reservation_id": id})
		require.Equal(t, http.StatusConflict, w.Code)
		errInfo := decode(t, w)["error"].(map[string]any)
		assert.Equal(t, "INVALID_RESERVATION_STATUS", errInfo["code"])
	})

	t.Run("double confirm is 409", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t, 5)

		w := f.do(t, http.MethodPost, "/inventory/confirm", gin.H{"reservation_id": id, "order_id": "ORDER-1"})
		require.Equal(t, http.StatusOK, w.Code)

		w = f.do(t, http.MethodPost, "/inventory/confirm", gin.H{"reservation_id": id, "order_id": "ORDER-1"})
		require.Equal(t, http.StatusConflict, w.Code)
		errInfo := decode(t, w)["error"].(map[string]any)
		assert.Equal(t, "RESERVATION_ALREADY_CONFIRMED", errInfo["code"])
	})

	t.Run("confirm without order id is 422", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t, 5)

		w := f.do(t, http.MethodPost, "/inventory/confirm", gin.H{"reservation_id": id})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown reservation is 404", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/confirm", gin.H{"reservation_id": uuid.NewString(), "order_id": "ORDER-1"})
		require.Equal(t, http.StatusNotFound, w.Code)
		errInfo := decode(t, w)["error"].(map[string]any)
		assert.Equal(t, "RESERVATION_NOT_FOUND", errInfo["code"])
	})
}

func TestInventoryHandler_UpdateStock(t *testing.T) {
	t.Run("add increases stock", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/update-stock", gin.H{
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   10,
			"operation":  "add",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Stock updated successfully", data["message"])
		stock := data["stock"].(map[string]any)
		assert.Equal(t, float64(60), stock["available_quantity"])
		assert.Equal(t, float64(60), stock["total_quantity"])
	})

	t.Run("subtract decreases stock", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/update-stock", gin.H{
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   20,
			"operation":  "subtract",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		stock := decode(t, w)["data"].(map[string]any)["stock"].(map[string]any)
		assert.Equal(t, float64(30), stock["available_quantity"])
		assert.Equal(t, float64(30), stock["total_quantity"])
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/update-stock", gin.H{
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   0,
			"operation":  "add",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects unknown operation", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/update-stock", gin.H{
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   10,
			"operation":  "set",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("subtract below available is 400", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/inventory/update-stock", gin.H{
			"product_id": f.productID.String(),
			"store_id":   f.storeID.String(),
			"quantity":   60,
			"operation":  "subtract",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decode(t, w)["error"].(map[string]any)
		assert.Equal(t, "BUSINESS_RULE_VIOLATION", errInfo["code"])
	})
}

func TestInventoryHandler_Queries(t *testing.T) {
	t.Run("lists all inventory with names", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/inventory/all", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		meta := body["meta"].(map[string]any)
		assert.Equal(t, float64(1), meta["total"])
		items := body["data"].([]any)
		first := items[0].(map[string]any)
		assert.Equal(t, "Widget", first["product_name"])
		assert.Equal(t, "Main Street", first["store_name"])
	})

	t.Run("lists products", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/inventory/products/", nil)

		require.Equal(t, http.StatusOK, w.Code)
		items := decode(t, w)["data"].([]any)
		require.Len(t, items, 1)
		first := items[0].(map[string]any)
		assert.Equal(t, "SKU-100", first["sku"])
		assert.Equal(t, "gadgets", first["category"])
		assert.Equal(t, "19.99", first["price"])
	})

	t.Run("unknown stock pair is 404", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/inventory/stock/"+uuid.NewString()+"/"+f.storeID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStoreHandler(t *testing.T) {
	t.Run("lists stores", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/stores/", nil)

		require.Equal(t, http.StatusOK, w.Code)
		items := decode(t, w)["data"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "Main Street", items[0].(map[string]any)["name"])
	})

	t.Run("gets one store", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/stores/"+f.storeID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Main Street", data["name"])
		assert.Equal(t, "Springfield", data["city"])
		assert.Equal(t, "US", data["country"])
		assert.Equal(t, "62701", data["zip_code"])
		assert.Equal(t, "active", data["status"])
		assert.Equal(t, "UTC", data["timezone"])
	})

	t.Run("unknown store is 404", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/stores/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store inventory", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/stores/"+f.storeID.String()+"/inventory", nil)

		require.Equal(t, http.StatusOK, w.Code)
		items := decode(t, w)["data"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, f.productID.String(), items[0].(map[string]any)["product_id"])
	})
}
