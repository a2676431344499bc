package httpgin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-go/internal/service/booking"
	"github.com/cinebook/cinebook-go/internal/service/shows"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondErr(c, err)

	return w
}

func TestRespondErr_SeatConflict(t *testing.T) {
	w := respond(t, booking.SeatConflictError{Seats: []string{"A1", "B5"}})

	require.Equal(t, http.StatusConflict, w.Code)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"A1", "B5"}, body.ConflictSeats)
}

func TestRespondErr_SeatConflict_Wrapped(t *testing.T) {
	err := fmt.Errorf("service.booking.CreateBooking:%w",
		booking.SeatConflictError{Seats: []string{"C3"}})

	w := respond(t, err)

	require.Equal(t, http.StatusConflict, w.Code)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"C3"}, body.ConflictSeats)
}

func TestRespondErr_InsufficientSeats(t *testing.T) {
	w := respond(t, booking.InsufficientSeatsError{Requested: 5, Available: 2})

	require.Equal(t, http.StatusConflict, w.Code)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.AvailableSeats)
	assert.Equal(t, 2, *body.AvailableSeats)
}

func TestRespondErr_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.ErrInvalidInput, http.StatusBadRequest},
		{booking.ErrMovieNotFound, http.StatusNotFound},
		{booking.ErrShowNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrNotOwner, http.StatusForbidden},
		{booking.ErrAlreadyCancelled, http.StatusConflict},
		{booking.ErrTxRetryExhausted, http.StatusServiceUnavailable},
		{shows.ErrSlotTaken, http.StatusConflict},
		{shows.ErrMovieNotFound, http.StatusNotFound},
		{fmt.Errorf("opaque failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := respond(t, fmt.Errorf("some.op:%w", tc.err))
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}
