package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
)

type stubBillService struct {
	bills       dto.BillsResult
	detail      dto.BillDetail
	payResult   dto.PayBillResult
	err         error
	lastCardID  string
	lastBillKey string
	lastOpen    bool
	lastPayReq  dto.PayBillRequest
}

func (s *stubBillService) GetBills(_ context.Context, _, cardID string, openOnly bool) (dto.BillsResult, error) {
	s.lastCardID = cardID
	s.lastOpen = openOnly
	return s.bills, s.err
}

func (s *stubBillService) GetBill(_ context.Context, _, cardID, billKey string) (dto.BillDetail, error) {
	s.lastCardID = cardID
	s.lastBillKey = billKey
	return s.detail, s.err
}

func (s *stubBillService) PayBill(_ context.Context, _, cardID, billKey string, req dto.PayBillRequest) (dto.PayBillResult, error) {
	s.lastCardID = cardID
	s.lastBillKey = billKey
	s.lastPayReq = req
	return s.payResult, s.err
}

// --- Tests ---

func TestGetBills_Handler_OK(t *testing.T) {
	svc := &stubBillService{bills: dto.BillsResult{
		Bills:          []dto.BillView{{Key: "2025-02"}, {Key: "2025-01"}},
		CurrentBillKey: "2025-01",
	}}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/cards/c1/bills", nil)
	req = withUID(req, "uid1")
	req = withChiParam(req, "cardId", "c1")
	rr := httptest.NewRecorder()
	h.GetBills(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastOpen {
		t.Error("openOnly should default to false")
	}
}

func TestGetBills_Handler_OpenFilter(t *testing.T) {
	svc := &stubBillService{}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/cards/c1/bills?open=true", nil)
	req = withUID(req, "uid1")
	req = withChiParam(req, "cardId", "c1")
	rr := httptest.NewRecorder()
	h.GetBills(rr, req)

	if !svc.lastOpen {
		t.Error("expected openOnly=true to be passed to the service")
	}
}

func TestGetBill_Handler_OK(t *testing.T) {
	svc := &stubBillService{detail: dto.BillDetail{BillView: dto.BillView{Key: "2025-01"}}}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/cards/c1/bills/2025-01", nil)
	req = withUID(req, "uid1")
	req = withChiParam(req, "cardId", "c1")
	req = withChiParam(req, "billKey", "2025-01")
	rr := httptest.NewRecorder()
	h.GetBill(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastBillKey != "2025-01" {
		t.Errorf("expected billKey=2025-01, got %s", svc.lastBillKey)
	}
}

func TestPayBill_Handler_OK(t *testing.T) {
	svc := &stubBillService{}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	body := `{"accountId":"acc1"}`
	req := httptest.NewRequest(http.MethodPost, "/cards/c1/bills/2025-01/pay", strings.NewReader(body))
	req = withUID(req, "uid1")
	req = withChiParam(req, "cardId", "c1")
	req = withChiParam(req, "billKey", "2025-01")
	rr := httptest.NewRecorder()
	h.PayBill(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastPayReq.AccountID != "acc1" {
		t.Errorf("expected accountId=acc1, got %s", svc.lastPayReq.AccountID)
	}
}

func TestPayBill_Handler_AlreadyPaid(t *testing.T) {
	svc := &stubBillService{err: errs.NewAlreadyExistsError("bill 2025-01 is already paid")}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	body := `{"accountId":"acc1"}`
	req := httptest.NewRequest(http.MethodPost, "/cards/c1/bills/2025-01/pay", strings.NewReader(body))
	req = withUID(req, "uid1")
	req = withChiParam(req, "cardId", "c1")
	req = withChiParam(req, "billKey", "2025-01")
	rr := httptest.NewRecorder()
	h.PayBill(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on already-paid bill")
	}
}
