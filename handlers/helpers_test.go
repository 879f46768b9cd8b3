package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportleague/league-system/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrTeamNotFound, http.StatusNotFound},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError},
		{"name conflict", services.ErrTeamNameConflict, http.StatusConflict},
		{"roster full", services.ErrRosterFull, http.StatusConflict},
		{"double return", services.ErrEquipmentAlreadyReturned, http.StatusConflict},
		// Отказ выдачи и закрытое событие — бизнес-состояние, не права доступа.
		{"not available", services.ErrEquipmentNotAvailable, http.StatusConflict},
		{"poor condition", services.ErrEquipmentPoorCondition, http.StatusConflict},
		{"event closed", services.ErrEventNotOpen, http.StatusConflict},
		{"same team", services.ErrMatchSameTeam, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

// Формулировка конфликта расписания уходит клиенту дословно.
func TestMapScheduleConflictError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches", nil)

	err := &services.ScheduleConflictError{
		Message: "Venue conflict: Venue 7 is already booked for slot Morning on 2026-09-12.",
	}
	mapServiceErrorToHTTP(rec, req, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue conflict: Venue 7 is already booked for slot Morning on 2026-09-12.")
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	read := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var dst payload
		return readJSON(httptest.NewRecorder(), req, &dst)
	}

	assert.NoError(t, read(`{"name": "Falcons"}`))

	err := read(``)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")

	err = read(`{"name": "Falcons"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "badly-formed JSON")

	err = read(`{"name": 7}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect JSON type")

	err = read(`{"surname": "Falcons"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")

	err = read(`{"name": "Falcons"}{"name": "Hawks"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single JSON value")
}

func TestGetIDFromURL(t *testing.T) {
	request := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/teams/"+value, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("teamID", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}

	id, err := getIDFromURL(request("8"), "teamID")
	require.NoError(t, err)
	assert.Equal(t, 8, id)

	_, err = getIDFromURL(request("abc"), "teamID")
	assert.Error(t, err)

	_, err = getIDFromURL(request("0"), "teamID")
	assert.Error(t, err)
}

func TestGetOptionalIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/matches?event_id=5", nil)

	got, err := getOptionalIntQuery(req, "event_id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)

	got, err = getOptionalIntQuery(req, "team_id")
	require.NoError(t, err)
	assert.Nil(t, got)

	req = httptest.NewRequest(http.MethodGet, "/matches?event_id=zero", nil)
	_, err = getOptionalIntQuery(req, "event_id")
	assert.Error(t, err)
}
