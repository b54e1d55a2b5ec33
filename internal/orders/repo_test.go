package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dropshoplabs/dropshop-backend/pkg/db"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
)

func setupOrdersRepo(t *testing.T) Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE orders (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			user_email text NOT NULL,
			order_number text NOT NULL UNIQUE,
			status text NOT NULL DEFAULT 'pending',
			shipping_address text,
			shipping_method text NOT NULL,
			payment_method text NOT NULL,
			subtotal numeric NOT NULL,
			shipping numeric NOT NULL,
			tax numeric NOT NULL,
			total numeric NOT NULL,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL
		)`,
		`CREATE TABLE order_items (
			id text PRIMARY KEY,
			order_id text NOT NULL,
			product_id text,
			name text NOT NULL,
			unit_price numeric NOT NULL,
			quantity integer NOT NULL,
			image_url text,
			created_at datetime NOT NULL
		)`,
	} {
		require.NoError(t, conn.Exec(ddl).Error)
	}

	return NewRepository(conn)
}

func seedOrder(t *testing.T, repo Repository, status enums.OrderStatus, total string, createdAt time.Time) *models.Order {
	t.Helper()

	productID := uuid.New()
	order := &models.Order{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		UserEmail:      "shopper@example.com",
		OrderNumber:    "ORD-" + uuid.NewString()[:9],
		Status:         status,
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodCard,
		Subtotal:       decimal.RequireFromString(total),
		Shipping:       decimal.Zero,
		Tax:            decimal.Zero,
		Total:          decimal.RequireFromString(total),
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				ProductID: &productID,
				Name:      "widget",
				UnitPrice: decimal.RequireFromString(total),
				Quantity:  1,
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepoCreateAndFind(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	seeded := seedOrder(t, repo, enums.OrderStatusPending, "64.59", time.Now().UTC())

	byID, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.OrderNumber, byID.OrderNumber)
	require.Len(t, byID.Items, 1)
	assert.Equal(t, "widget", byID.Items[0].Name)

	byNumber, err := repo.FindByOrderNumber(ctx, seeded.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byNumber.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoRejectsDuplicateOrderNumber(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	first := seedOrder(t, repo, enums.OrderStatusPending, "10.00", time.Now().UTC())

	dup := &models.Order{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		UserEmail:      "other@example.com",
		OrderNumber:    first.OrderNumber,
		Status:         enums.OrderStatusPending,
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodCard,
		Subtotal:       decimal.RequireFromString("5.00"),
		Shipping:       decimal.Zero,
		Tax:            decimal.Zero,
		Total:          decimal.RequireFromString("5.00"),
	}

	_, err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestRepoUpdateStatus(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	seeded := seedOrder(t, repo, enums.OrderStatusPending, "20.00", time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(ctx, seeded.ID, enums.OrderStatusShipped))

	reloaded, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, reloaded.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusShipped)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoListPaginatesByCursor(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedOrder(t, repo, enums.OrderStatusPending, "10.00", base)
	middle := seedOrder(t, repo, enums.OrderStatusPending, "20.00", base.Add(time.Minute))
	newest := seedOrder(t, repo, enums.OrderStatusPending, "30.00", base.Add(2*time.Minute))

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, newest.ID, page.Orders[0].ID)
	assert.Equal(t, middle.ID, page.Orders[1].ID)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, Filters{})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Equal(t, oldest.ID, rest.Orders[0].ID)
	assert.Empty(t, rest.NextCursor)
}

func TestRepoListFilters(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cancelled := seedOrder(t, repo, enums.OrderStatusCancelled, "10.00", base)
	seedOrder(t, repo, enums.OrderStatusPending, "20.00", base.Add(time.Minute))

	status := enums.OrderStatusCancelled
	byStatus, err := repo.List(ctx, pagination.Params{}, Filters{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus.Orders, 1)
	assert.Equal(t, cancelled.ID, byStatus.Orders[0].ID)

	from := base.Add(30 * time.Second)
	byDate, err := repo.List(ctx, pagination.Params{}, Filters{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, byDate.Orders, 1)

	byEmail, err := repo.List(ctx, pagination.Params{}, Filters{Query: "SHOPPER@"})
	require.NoError(t, err)
	assert.Len(t, byEmail.Orders, 2)

	byNumber, err := repo.List(ctx, pagination.Params{}, Filters{Query: cancelled.OrderNumber})
	require.NoError(t, err)
	require.Len(t, byNumber.Orders, 1)
	assert.Equal(t, cancelled.ID, byNumber.Orders[0].ID)
}

func TestRepoListByUser(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	mine := seedOrder(t, repo, enums.OrderStatusPending, "10.00", time.Now().UTC())
	seedOrder(t, repo, enums.OrderStatusPending, "20.00", time.Now().UTC())

	list, err := repo.ListByUser(ctx, mine.UserID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, mine.ID, list.Orders[0].ID)
}

func TestRepoRevenueExcludesCancelled(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	seedOrder(t, repo, enums.OrderStatusPending, "100.00", now)
	seedOrder(t, repo, enums.OrderStatusDelivered, "50.00", now)
	seedOrder(t, repo, enums.OrderStatusCancelled, "30.00", now)

	revenue, err := repo.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("150")), "got %s", revenue)

	loss, err := repo.CancellationLoss(ctx)
	require.NoError(t, err)
	assert.True(t, loss.Equal(decimal.RequireFromString("30")), "got %s", loss)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enums.OrderStatusCancelled])
	assert.Equal(t, int64(1), counts[enums.OrderStatusPending])
}

func TestRepoRevenueEmptyTable(t *testing.T) {
	repo := setupOrdersRepo(t)

	revenue, err := repo.Revenue(context.Background())
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())
}
