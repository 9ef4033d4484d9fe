package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	orderssvc "github.com/pinnlabs/varejo-backend/internal/orders"
	"github.com/pinnlabs/varejo-backend/pkg/enums"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/pagination"
)

type stubOrdersService struct {
	page      pagination.Page[orderssvc.Summary]
	detail    *orderssvc.Detail
	duplicate *orderssvc.DuplicateResult
	err       error

	lastStatus enums.OrderStatus
}

func (s *stubOrdersService) List(ctx context.Context, retailerID uuid.UUID, filters orderssvc.Filters, params pagination.Params) (pagination.Page[orderssvc.Summary], error) {
	return s.page, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, retailerID, orderID uuid.UUID) (*orderssvc.Detail, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*orderssvc.Detail, error) {
	s.lastStatus = status
	return s.detail, s.err
}

func (s *stubOrdersService) Duplicate(ctx context.Context, retailerID, orderID uuid.UUID) (*orderssvc.DuplicateResult, error) {
	return s.duplicate, s.err
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrdersListInvalidStatus(t *testing.T) {
	handler := OrdersList(&stubOrdersService{}, nil)

	req := withRetailer(httptest.NewRequest(http.MethodGet, "/api/v1/pedidos/?status=despachado", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersListSuccess(t *testing.T) {
	page := pagination.NewPage(pagination.Params{Page: 1, PageSize: 20}, []orderssvc.Summary{{ID: uuid.New()}}, 1)
	handler := OrdersList(&stubOrdersService{page: page}, nil)

	req := withRetailer(httptest.NewRequest(http.MethodGet, "/api/v1/pedidos/", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data pagination.Page[orderssvc.Summary] `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 1 {
		t.Fatalf("expected total 1 got %d", envelope.Data.Total)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	handler := OrderDetail(&stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "pedido nao encontrado")}, nil)

	orderID := uuid.New()
	req := withRetailer(httptest.NewRequest(http.MethodGet, "/api/v1/pedidos/"+orderID.String(), nil), uuid.New())
	req = withRouteParam(req, "pedidoId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrderDuplicateSuccess(t *testing.T) {
	result := &orderssvc.DuplicateResult{ItensAdicionados: 2, ItensIgnorados: []string{"Leite UHT 1L"}}
	handler := OrderDuplicate(&stubOrdersService{duplicate: result}, nil)

	orderID := uuid.New()
	req := withRetailer(httptest.NewRequest(http.MethodPost, "/api/v1/pedidos/"+orderID.String()+"/duplicar", nil), uuid.New())
	req = withRouteParam(req, "pedidoId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orderssvc.DuplicateResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItensAdicionados != 2 {
		t.Fatalf("expected 2 items added got %d", envelope.Data.ItensAdicionados)
	}
	if len(envelope.Data.ItensIgnorados) != 1 {
		t.Fatalf("expected 1 skipped item got %d", len(envelope.Data.ItensIgnorados))
	}
}
