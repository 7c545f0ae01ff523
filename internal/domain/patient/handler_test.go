package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo, uuid.UUID) {
	t.Helper()
	svc, _, _, roundID := newTestService(t)
	return NewHandler(svc), echo.New(), roundID
}

func doRequest(e *echo.Echo, h echo.HandlerFunc, method, path, body string, paramValue string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(paramValue)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e, roundID := newTestHandler(t)

	rec := doRequest(e, h.CreatePatient, http.MethodPost, "/",
		`{"name":"Asha Verma","diagnosis":"pneumonia"}`, roundID.String())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if p.SerialNo != 1 {
		t.Errorf("expected serial 1, got %d", p.SerialNo)
	}
	if p.Name != "Asha Verma" {
		t.Errorf("expected name back, got %q", p.Name)
	}
}

func TestHandler_CreatePatient_MissingName(t *testing.T) {
	h, e, roundID := newTestHandler(t)
	rec := doRequest(e, h.CreatePatient, http.MethodPost, "/", `{"diagnosis":"x"}`, roundID.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_CreatePatient_UnknownRound(t *testing.T) {
	h, e, _ := newTestHandler(t)
	rec := doRequest(e, h.CreatePatient, http.MethodPost, "/", `{"name":"A"}`, uuid.New().String())
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown round, got %d", rec.Code)
	}
}

func TestHandler_NextSerial(t *testing.T) {
	svc, _, _, roundID := newTestService(t)
	mustCreate(t, svc, roundID, "A")
	mustCreate(t, svc, roundID, "B")
	h := NewHandler(svc)
	e := echo.New()

	rec := doRequest(e, h.NextSerial, http.MethodGet, "/", "", roundID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["next_serial"] != 3 {
		t.Errorf("expected next_serial 3, got %d", body["next_serial"])
	}
}

func TestHandler_ListPatients_EmptyRoundReturnsArray(t *testing.T) {
	h, e, roundID := newTestHandler(t)
	rec := doRequest(e, h.ListPatients, http.MethodGet, "/", "", roundID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestHandler_ReorderPatients(t *testing.T) {
	svc, _, _, roundID := newTestService(t)
	a := mustCreate(t, svc, roundID, "A")
	b := mustCreate(t, svc, roundID, "B")
	h := NewHandler(svc)
	e := echo.New()

	body := `{"patient_ids":["` + b.ID.String() + `","` + a.ID.String() + `"]}`
	rec := doRequest(e, h.ReorderPatients, http.MethodPut, "/", body, roundID.String())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	order := names(t, svc, roundID)
	if order[0] != "B" || order[1] != "A" {
		t.Errorf("expected order [B A], got %v", order)
	}
}

func TestHandler_ReorderPatients_BadRoundID(t *testing.T) {
	h, e, _ := newTestHandler(t)
	rec := doRequest(e, h.ReorderPatients, http.MethodPut, "/", `{"patient_ids":[]}`, "not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, e, _ := newTestHandler(t)
	rec := doRequest(e, h.GetPatient, http.MethodGet, "/", "", uuid.New().String())
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	svc, _, _, roundID := newTestService(t)
	p := mustCreate(t, svc, roundID, "A")
	h := NewHandler(svc)
	e := echo.New()

	rec := doRequest(e, h.DeletePatient, http.MethodDelete, "/", "", p.ID.String())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, err := svc.Get(context.Background(), p.ID); err == nil {
		t.Error("expected patient gone after delete")
	}
}
