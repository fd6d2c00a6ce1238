package sqlstore

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, logger.Default.LogMode(logger.Silent))
}

func openTestDB(t *testing.T, l logger.Interface) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         l,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestQuotationStore_RoundTrip(t *testing.T) {
	s := NewQuotationStore(newTestDB(t))
	ctx := context.Background()

	precio := decimal.RequireFromString("12.30")
	created, err := s.Create(ctx, entities.Quotation{
		Numero:   "COT-2025-09-001",
		Cliente:  "ACME",
		Tarifa:   "PVP",
		Estado:   entities.EstadoPendiente,
		Vendedor: entities.Vendedor{UID: "u-1", Email: "laura@comercialav.com"},
		Articulos: []entities.LineItem{
			{Articulo: "Cable", Unidades: 10, PrecioCliente: decimal.NewFromInt(15), PrecioSolicitado: &precio},
		},
		ComentariosPrivados: []entities.ComentarioPrivado{},
		FechaCreacion:       time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Cliente)
	require.Len(t, got.Articulos, 1)
	require.NotNil(t, got.Articulos[0].PrecioSolicitado)
	assert.True(t, precio.Equal(*got.Articulos[0].PrecioSolicitado))
	assert.Nil(t, got.Articulos[0].PrecioCompetencia)

	missing, err := s.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestQuotationStore_DuplicateNumeroRejected(t *testing.T) {
	s := NewQuotationStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, entities.Quotation{Numero: "COT-2025-09-001", Estado: entities.EstadoPendiente})
	require.NoError(t, err)
	_, err = s.Create(ctx, entities.Quotation{Numero: "COT-2025-09-001", Estado: entities.EstadoPendiente})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestQuotationStore_UpdateLifecycleAndList(t *testing.T) {
	s := NewQuotationStore(newTestDB(t))
	ctx := context.Background()

	a, err := s.Create(ctx, entities.Quotation{Numero: "COT-2025-09-001", Estado: entities.EstadoPendiente})
	require.NoError(t, err)
	_, err = s.Create(ctx, entities.Quotation{Numero: "COT-2025-09-002", Estado: entities.EstadoPendiente})
	require.NoError(t, err)

	ganada := entities.EstadoGanada
	at := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)
	updated, err := s.UpdateLifecycle(ctx, a.ID, entities.LifecycleChange{Estado: &ganada, UpdatedAt: at})
	require.NoError(t, err)
	assert.Equal(t, entities.EstadoGanada, updated.Estado)
	assert.True(t, at.Equal(updated.UpdatedAt))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	estados := map[string]entities.Estado{}
	for _, q := range list {
		estados[q.Numero] = q.Estado
	}
	assert.Equal(t, entities.EstadoGanada, estados["COT-2025-09-001"])
	assert.Equal(t, entities.EstadoPendiente, estados["COT-2025-09-002"])

	missing, err := s.UpdateLifecycle(ctx, "nope", entities.LifecycleChange{Estado: &ganada, UpdatedAt: at})
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestCounterStore_Next(t *testing.T) {
	s := NewCounterStore(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Next(ctx, "cotizaciones-2025-09", now)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := s.Next(ctx, "cotizaciones-2025-10", now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got)
}

func TestCounterStore_FirstAllocationLogsNoWarning(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(log.New(&buf, "", 0), logger.Config{LogLevel: logger.Warn})
	db := openTestDB(t, l)
	ctx := context.Background()

	got, err := NewCounterStore(db).Next(ctx, "cotizaciones-2025-11", time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 1, got)

	missing, err := NewQuotationStore(db).GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)

	assert.NotContains(t, buf.String(), "record not found")
}

func TestQuotationStore_UpdateLifecycleRefusesClosed(t *testing.T) {
	s := NewQuotationStore(newTestDB(t))
	ctx := context.Background()

	q, err := s.Create(ctx, entities.Quotation{Numero: "COT-2025-09-001", Estado: entities.EstadoGanada})
	require.NoError(t, err)

	reabierta := entities.EstadoReabierta
	_, err = s.UpdateLifecycle(ctx, q.ID, entities.LifecycleChange{Estado: &reabierta, UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, interfaces.ErrQuotationClosed)

	// comments still land on a closed quotation
	updated, err := s.UpdateLifecycle(ctx, q.ID, entities.LifecycleChange{
		Comentario: &entities.ComentarioPrivado{Autor: "Vanessa", Texto: "cerrada"},
		UpdatedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.EstadoGanada, updated.Estado)
	assert.Len(t, updated.ComentariosPrivados, 1)
}
