package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/handler"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/service"
)

type mockDegreeService struct {
	lastCode    string
	lastRequest dto.DegreeUpdateRequest
	response    dto.DegreeResponse
	err         error
}

func (m *mockDegreeService) Get(_ context.Context, code string) (dto.DegreeResponse, error) {
	m.lastCode = code
	if m.err != nil {
		return dto.DegreeResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockDegreeService) Update(_ context.Context, code string, req dto.DegreeUpdateRequest) (dto.DegreeResponse, error) {
	m.lastCode = code
	m.lastRequest = req
	if m.err != nil {
		return dto.DegreeResponse{}, m.err
	}
	return m.response, nil
}

func newDegreeApp(svc service.DegreeService) *fiber.App {
	app := fiber.New()
	validate := validator.New(validator.WithRequiredStructEnabled())
	passthrough := func(c *fiber.Ctx) error { return c.Next() }
	handler.NewDegreeHandler(svc, validate, zerolog.New(io.Discard)).Register(app.Group("/students"), passthrough, passthrough)
	return app
}

func TestDegreeHandler_UpdateSuccess(t *testing.T) {
	svc := &mockDegreeService{response: dto.DegreeResponse{Code: "100", FullName: "Mina"}}
	app := newDegreeApp(svc)

	payload := dto.DegreeUpdateRequest{
		Edits: []dto.ScoreEditRequest{{Path: "degree.firstTerm.coptic", Value: 8}},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/students/100/degrees", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "100", svc.lastCode)
	require.Len(t, svc.lastRequest.Edits, 1)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.DegreeResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "Mina", response.Data.FullName)
}

func TestDegreeHandler_UpdateRejectsEmptyEdits(t *testing.T) {
	svc := &mockDegreeService{}
	app := newDegreeApp(svc)

	body, err := json.Marshal(dto.DegreeUpdateRequest{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/students/100/degrees", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastCode)
}

func TestDegreeHandler_UpdateMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown student", service.ErrStudentNotFound, fiber.StatusNotFound},
		{"bad path", models.ErrInvalidPath, fiber.StatusBadRequest},
		{"bad term", models.ErrInvalidTerm, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newDegreeApp(&mockDegreeService{err: tc.err})

			body, err := json.Marshal(dto.DegreeUpdateRequest{
				Edits: []dto.ScoreEditRequest{{Path: "degree.firstTerm.coptic", Value: 1}},
			})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPatch, "/students/100/degrees", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
