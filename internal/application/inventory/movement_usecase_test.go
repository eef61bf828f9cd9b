package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/tu-usuario/almacen-ledger/internal/application/dto"
	"github.com/tu-usuario/almacen-ledger/internal/application/inventory"
	"github.com/tu-usuario/almacen-ledger/internal/domain"
	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/pkg/logger"
)

const (
	testProductID   = "11111111-1111-1111-1111-111111111111"
	testWarehouseID = "22222222-2222-2222-2222-222222222222"
	testUser        = "33333333-3333-3333-3333-333333333333"
)

type fixture struct {
	uc     *inventory.MovementUseCase
	mov    *fakeMovementRepo
	levels *fakeStockLevelRepo
	prods  *fakeProductRepo
	whs    *fakeWarehouseRepo
}

func newFixture() *fixture {
	prods := newFakeProductRepo(&entity.Product{
		ID: testProductID, SKU: "TOR-001", Name: "Tornillo 3mm", Category: "ferreteria",
	})
	whs := newFakeWarehouseRepo(&entity.Warehouse{
		ID: testWarehouseID, Name: "Bodega Central",
	})
	mov := newFakeMovementRepo(prods, whs)
	levels := newFakeStockLevelRepo()
	tx := &fakeTxRunner{mov: mov, levels: levels}
	uc := inventory.NewMovementUseCase(tx, mov, prods, whs, logger.Nop())
	return &fixture{uc: uc, mov: mov, levels: levels, prods: prods, whs: whs}
}

func ingress(q int64) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		Kind: entity.MovementKindIngress, Quantity: q,
		ProductID: testProductID, WarehouseID: testWarehouseID,
	}
}

func egress(q int64) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		Kind: entity.MovementKindEgress, Quantity: q,
		ProductID: testProductID, WarehouseID: testWarehouseID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_IngresoSumaAlStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, testUser, ingress(100), language.Spanish)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, int64(100), f.levels.quantity(testProductID, testWarehouseID))
	assert.Equal(t, 1, f.mov.count(), "debe existir una entrada en el libro")
	assert.Equal(t, "Tornillo 3mm", out.ProductName)
	assert.Equal(t, "Bodega Central", out.WarehouseName)
	assert.NotEmpty(t, out.OccurredAtLabel)
}

func TestCreate_EgresoRestaDelStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, testUser, ingress(100), language.Spanish)
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, testUser, egress(30), language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(70), f.levels.quantity(testProductID, testWarehouseID))
}

// El stock puede quedar negativo: un egreso sobre una clave sin fila crea la
// fila en 0 y resta. No hay validación contra el disponible.
func TestCreate_EgresoSinStockPrevio_QuedaNegativo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, testUser, egress(5), language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(-5), f.levels.quantity(testProductID, testWarehouseID))
	assert.Equal(t, 1, f.levels.rows(), "la fila debe crearse perezosamente")
}

func TestCreate_KindInvalido_NoMutaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := ingress(10)
	in.Kind = "TRANSFER"
	_, err := f.uc.Create(ctx, testUser, in, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 0, f.mov.count(), "no debe escribirse el libro")
	assert.Equal(t, 0, f.levels.rows(), "no debe tocarse la proyección")
}

func TestCreate_CantidadNoPositiva_NoMutaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, q := range []int64{0, -3} {
		_, err := f.uc.Create(ctx, testUser, ingress(q), language.Spanish)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 0, f.mov.count())
	assert.Equal(t, 0, f.levels.rows())
}

func TestCreate_ProductoInexistente_ReferenceNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := ingress(10)
	in.ProductID = "no-existe"
	_, err := f.uc.Create(ctx, testUser, in, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Equal(t, 0, f.mov.count())
	assert.Equal(t, 0, f.levels.rows())
}

func TestCreate_BodegaInexistente_ReferenceNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := ingress(10)
	in.WarehouseID = "no-existe"
	_, err := f.uc.Create(ctx, testUser, in, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Equal(t, 0, f.levels.rows())
}

// Escritores concurrentes sobre la misma clave: cada efecto debe aplicarse
// exactamente una vez. Con lecturas-modificaciones en memoria esto perdería
// actualizaciones; el contrato de ApplyDelta lo impide.
func TestCreate_ConcurrenciaMismaClave_SumaExacta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const writers = 64
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		kind := entity.MovementKindIngress
		if i%2 == 1 {
			kind = entity.MovementKindEgress
		}
		go func(kind string) {
			defer wg.Done()
			_, err := f.uc.Create(ctx, testUser, dto.CreateMovementRequest{
				Kind: kind, Quantity: 3,
				ProductID: testProductID, WarehouseID: testWarehouseID,
			}, language.Spanish)
			assert.NoError(t, err)
		}(kind)
	}
	wg.Wait()

	// 32 ingresos de 3 y 32 egresos de 3 se cancelan.
	assert.Equal(t, int64(0), f.levels.quantity(testProductID, testWarehouseID))
	assert.Equal(t, writers, f.mov.count())
}

// ──────────────────────────────────────────────────────────────────────────────
// Update: revertir + reaplicar dentro de una transacción
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: ingreso de 100, egreso de 30 (stock 70). Editar el
// ingreso a 40 debe dejar el stock en 10: -100 (reversión) +40 (reaplicación).
func TestUpdate_CambioDeCantidad_RevierteYReaplica(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(100), language.Spanish)
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, testUser, egress(30), language.Spanish)
	require.NoError(t, err)
	require.Equal(t, int64(70), f.levels.quantity(testProductID, testWarehouseID))

	newQty := int64(40)
	out, err := f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Quantity: &newQty}, language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.levels.quantity(testProductID, testWarehouseID))
	assert.Equal(t, int64(40), out.Quantity)
	assert.Equal(t, entity.MovementKindIngress, out.Kind)
}

func TestUpdate_CambioDeTipo_InvierteElEfecto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(50), language.Spanish)
	require.NoError(t, err)
	require.Equal(t, int64(50), f.levels.quantity(testProductID, testWarehouseID))

	newKind := entity.MovementKindEgress
	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Kind: &newKind}, language.Spanish)
	require.NoError(t, err)

	// Reversión -50, reaplicación -50.
	assert.Equal(t, int64(-50), f.levels.quantity(testProductID, testWarehouseID))
}

// Editar sin cambiar nada debe ser un no-op neto sobre la proyección: la
// reversión y la reaplicación se cancelan exactamente.
func TestUpdate_SinCambios_EsNoOpSobreLaProyeccion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(25), language.Spanish)
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{}, language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(25), f.levels.quantity(testProductID, testWarehouseID))
}

func TestUpdate_SoloDescripcion_NoCambiaElStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(7), language.Spanish)
	require.NoError(t, err)

	desc := "conteo corregido"
	out, err := f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Description: &desc}, language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.levels.quantity(testProductID, testWarehouseID))
	assert.Equal(t, "conteo corregido", out.Description)
}

func TestUpdate_MovimientoInexistente_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	q := int64(5)
	_, err := f.uc.Update(ctx, "no-existe", dto.UpdateMovementRequest{Quantity: &q}, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_EntradaInvalida_NoTocaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(10), language.Spanish)
	require.NoError(t, err)

	badKind := "AJUSTE"
	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Kind: &badKind}, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badQty := int64(0)
	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Quantity: &badQty}, language.Spanish)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(10), f.levels.quantity(testProductID, testWarehouseID))
}

// Si la reaplicación falla a mitad de la edición, la transacción debe revertir
// todo: libro y proyección quedan como antes. Un commit parcial dejaría el
// stock desviado de forma permanente.
func TestUpdate_FalloAMitad_RollbackCompleto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(100), language.Spanish)
	require.NoError(t, err)
	require.Equal(t, int64(100), f.levels.quantity(testProductID, testWarehouseID))

	// La llamada 1 dentro del update es la reversión; la 2 la reaplicación.
	// El Create ya consumió una llamada, así que fallamos la tercera global.
	boom := errors.New("deadlock detected")
	f.levels.failOnCall = 3
	f.levels.failErr = boom

	q := int64(40)
	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Quantity: &q}, language.Spanish)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(100), f.levels.quantity(testProductID, testWarehouseID),
		"la reversión aplicada debe deshacerse con el rollback")
	mov, err := f.mov.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), mov.Quantity, "el libro no debe quedar editado")
}

// Una cancelación del cliente durante la edición no debe partir la pareja
// reversión+reaplicación: la transacción corre sobre un contexto desacoplado.
func TestUpdate_ContextoCancelado_CompletaLaEdicion(t *testing.T) {
	f := newFixture()

	created, err := f.uc.Create(context.Background(), testUser, ingress(100), language.Spanish)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelado antes de empezar

	q := int64(40)
	_, err = f.uc.Update(ctx, created.ID, dto.UpdateMovementRequest{Quantity: &q}, language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(40), f.levels.quantity(testProductID, testWarehouseID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete: elimina del libro, NO revierte la proyección
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_NoRevierteLaProyeccion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(10), language.Spanish)
	require.NoError(t, err)
	require.Equal(t, int64(10), f.levels.quantity(testProductID, testWarehouseID))

	require.NoError(t, f.uc.Delete(ctx, created.ID))

	assert.Equal(t, 0, f.mov.count(), "la entrada del libro debe desaparecer")
	assert.Equal(t, int64(10), f.levels.quantity(testProductID, testWarehouseID),
		"el efecto del movimiento borrado permanece en el stock")
}

func TestDelete_MovimientoInexistente_NotFound(t *testing.T) {
	f := newFixture()
	err := f.uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_IncluyeNombresDeCatalogo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, testUser, ingress(10), language.Spanish)
	require.NoError(t, err)

	out, err := f.uc.GetByID(ctx, created.ID, language.English)
	require.NoError(t, err)
	assert.Equal(t, "TOR-001", out.ProductSKU)
	assert.Equal(t, "Tornillo 3mm", out.ProductName)
	assert.Equal(t, "Bodega Central", out.WarehouseName)
}

func TestGetByID_Inexistente_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetByID(context.Background(), "no-existe", language.Spanish)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorCategoriaDelProducto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Segundo producto en otra categoría.
	otherProduct := &entity.Product{ID: "p-2", SKU: "CAB-001", Name: "Cable", Category: "electrico"}
	require.NoError(t, f.prods.Create(otherProduct))

	_, err := f.uc.Create(ctx, testUser, ingress(10), language.Spanish)
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, testUser, dto.CreateMovementRequest{
		Kind: entity.MovementKindIngress, Quantity: 4,
		ProductID: "p-2", WarehouseID: testWarehouseID,
	}, language.Spanish)
	require.NoError(t, err)

	out, err := f.uc.List(ctx, "electrico", dto.PageRequest{}, language.Spanish)
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	assert.Equal(t, "Cable", out.Movements[0].ProductName)

	all, err := f.uc.List(ctx, "", dto.PageRequest{}, language.Spanish)
	require.NoError(t, err)
	assert.Len(t, all.Movements, 2)
}

func TestList_RespuestaConLocaleIngles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, testUser, ingress(1), language.Spanish)
	require.NoError(t, err)

	out, err := f.uc.List(ctx, "", dto.PageRequest{}, language.English)
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	// El label inglés no contiene la preposición "de" del formato español.
	assert.NotContains(t, out.Movements[0].OccurredAtLabel, " de ")
}
