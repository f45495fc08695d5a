package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DivyaP1063/shophub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	sellerID  = "5b1f7c1e-0a3e-4a51-9c55-3d2b1b0f6a01"
	buyerID   = "5b1f7c1e-0a3e-4a51-9c55-3d2b1b0f6a02"
	productA  = "0c8e0c1a-7f4b-4c8e-8a55-2f4f3e2d1a0a"
	productB  = "0c8e0c1a-7f4b-4c8e-8a55-2f4f3e2d1a0b"
	orderID   = "9d3c2b1a-1111-4e2f-8a7b-6c5d4e3f2a10"
	cartID    = "7a6b5c4d-2222-4e2f-8a7b-6c5d4e3f2a11"
	rzpOrder  = "order_Nx81aPq2"
	rzpPaymnt = "pay_Nx81bQr3"
)

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seller_id", "title", "description", "price", "images", "category", "sizes", "stock", "created_at", "updated_at"})
}

func TestProductRepository_Get(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs(productA).
		WillReturnRows(productRows().AddRow(productA, sellerID, "Linen Dress", "", "10.50", "{https://img/1.jpg}", "Dresses", "{S,M}", 4, time.Now(), time.Now()))

	p, err := repo.Get(context.Background(), productA)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("Expected price 10.50, got %s", p.Price)
	}
	if len(p.Images) != 1 || len(p.Sizes) != 2 || p.Sizes[1] != models.SizeM {
		t.Errorf("Unexpected arrays: images=%v sizes=%v", p.Images, p.Sizes)
	}
	if p.Category != models.CategoryDresses {
		t.Errorf("Expected category Dresses, got %s", p.Category)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductRepository_Get_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs(productB).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), productB); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// malformed ids never reach the database
	if _, err := repo.Get(context.Background(), "not-a-uuid"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for malformed id, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductRepository_GetMany_SkipsEmpty(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewProductRepository(db)

	got, err := repo.GetMany(context.Background(), []string{"bogus"})
	if err != nil || len(got) != 0 {
		t.Fatalf("Expected empty result without query, got %v, %v", got, err)
	}

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(productRows().
			AddRow(productA, sellerID, "A", "", "10", "{x}", "Tops", "{}", 3, time.Now(), time.Now()).
			AddRow(productB, sellerID, "B", "", "5", "{y}", "Tops", "{}", 1, time.Now(), time.Now()))

	got, err = repo.GetMany(context.Background(), []string{productA, productB, productA})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 || got[productB].Stock != 1 {
		t.Errorf("Unexpected products: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductRepository_SetStock(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewProductRepository(db)

	mock.ExpectExec("UPDATE products SET stock = \\$1").
		WithArgs(-1, productA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock = \\$1").
		WithArgs(2, productB).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetStock(context.Background(), productA, -1); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := repo.SetStock(context.Background(), productB, 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductRepository_IDsBySeller(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT id FROM products WHERE seller_id = \\$1").
		WithArgs(sellerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(productA).AddRow(productB))

	ids, err := repo.IDsBySeller(context.Background(), sellerID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 ids, got %v", ids)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestCartRepository_GetByUser(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewCartRepository(db)

	mock.ExpectQuery("SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = \\$1").
		WithArgs(buyerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
			AddRow(cartID, buyerID, []byte(`[{"product":"`+productA+`","quantity":2}]`), time.Now(), time.Now()))

	c, err := repo.GetByUser(context.Background(), buyerID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != productA || c.Items[0].Quantity != 2 {
		t.Errorf("Unexpected items: %+v", c.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestCartRepository_SaveAndClear(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewCartRepository(db)

	mock.ExpectQuery("INSERT INTO carts").
		WithArgs(sqlmock.AnyArg(), buyerID, []byte(`[]`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(cartID, time.Now(), time.Now()))
	mock.ExpectExec("UPDATE carts SET items = '\\[\\]'").
		WithArgs(buyerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Cart{UserID: buyerID}
	if err := repo.Save(context.Background(), c); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.ID != cartID {
		t.Errorf("Expected id %s, got %s", cartID, c.ID)
	}

	found, err := repo.Clear(context.Background(), buyerID)
	if err != nil || !found {
		t.Errorf("Expected cart cleared, got found=%v err=%v", found, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestOrderRepository_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewOrderRepository(db)

	o := &models.Order{
		UserID: buyerID,
		Items: []models.OrderItem{
			{ProductID: productA, Quantity: 2, Price: decimal.NewFromInt(10)},
			{ProductID: productB, Quantity: 1, Price: decimal.NewFromInt(5)},
		},
		TotalAmount:     decimal.NewFromInt(25),
		Status:          models.OrderStatusPending,
		RazorpayOrderID: rzpOrder,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), buyerID, sqlmock.AnyArg(), models.OrderStatusPending, rzpOrder).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), 0, productA, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), 1, productB, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), o); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.ID == "" || o.CreatedAt.IsZero() {
		t.Errorf("Expected id and timestamps to be set, got %+v", o)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestOrderRepository_Create_RollsBackOnItemFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	o := &models.Order{
		UserID:      buyerID,
		Items:       []models.OrderItem{{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(1)}},
		TotalAmount: decimal.NewFromInt(1),
		Status:      models.OrderStatusPending,
	}
	if err := repo.Create(context.Background(), o); err == nil {
		t.Fatal("Expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestOrderRepository_GetByRazorpayOrderID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE razorpay_order_id = \\$1").
		WithArgs(rzpOrder).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "razorpay_order_id", "razorpay_payment_id", "created_at", "updated_at"}).
			AddRow(orderID, buyerID, "25.00", "pending", rzpOrder, "", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT order_id, product_id, quantity, price FROM order_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "quantity", "price"}).
			AddRow(orderID, productA, 2, "10.00").
			AddRow(orderID, productB, 1, "5.00"))

	o, err := repo.GetByRazorpayOrderID(context.Background(), rzpOrder)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(o.Items) != 2 || o.Items[0].ProductID != productA {
		t.Errorf("Unexpected items: %+v", o.Items)
	}
	if !o.TotalAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected total 25, got %s", o.TotalAmount)
	}
	if o.Status != models.OrderStatusPending {
		t.Errorf("Expected pending, got %s", o.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestOrderRepository_ListContainingProducts_NoProducts(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewOrderRepository(db)

	orders, err := repo.ListContainingProducts(context.Background(), nil)
	if err != nil || len(orders) != 0 {
		t.Errorf("Expected no orders, got %v, %v", orders, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestOrderRepository_Update_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery("UPDATE orders SET status = \\$1").
		WithArgs("shipped", "", orderID).
		WillReturnError(sql.ErrNoRows)

	o := &models.Order{ID: orderID, Status: "shipped"}
	if err := repo.Update(context.Background(), o); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestUserRepository_Summaries(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email FROM users WHERE id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(sellerID, "Asha", "asha@example.com"))

	got, err := repo.Summaries(context.Background(), []string{sellerID, sellerID})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got[sellerID].Name != "Asha" {
		t.Errorf("Unexpected summaries: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(buyerID, "Meera", "meera@example.com", "hash", models.RoleBuyer, "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	u := &models.User{ID: buyerID, Name: "Meera", Email: "meera@example.com", Role: models.RoleBuyer}
	if err := repo.Create(context.Background(), u, "hash"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	if err := repo.Create(context.Background(), u, "hash"); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestUserRepository_GetCredentials(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("kabir@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "address", "created_at", "password_hash"}).
			AddRow(sellerID, "Kabir", "kabir@example.com", "seller", "", time.Now(), "hash"))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	u, hash, err := repo.GetCredentials(context.Background(), "kabir@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Role != models.RoleSeller || hash != "hash" {
		t.Errorf("Unexpected user %+v with hash %q", u, hash)
	}

	if _, _, err := repo.GetCredentials(context.Background(), "ghost@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}
