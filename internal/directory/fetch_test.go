package directory_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/atlas/internal/directory"
	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	staffBody       = `{"Id":"7","Name":"A","Phone":"555","DepartmentId":2,"Address":{"City":"Metropolis"}}`
	departmentsBody = `[{"Id":1,"Name":"Sales"},{"Id":2,"Name":"Engineering"}]`
)

// upstream is a fake directory service that counts the requests it receives.
type upstream struct {
	staffStatus      int
	staffBody        string
	departmentStatus int
	departmentBody   string
	staffCalls       atomic.Int32
	departmentCalls  atomic.Int32
	requestIDs       atomic.Int32
}

func newUpstream() *upstream {
	return &upstream{
		staffStatus:      http.StatusOK,
		staffBody:        staffBody,
		departmentStatus: http.StatusOK,
		departmentBody:   departmentsBody,
	}
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /people/{id}", func(w http.ResponseWriter, r *http.Request) {
		u.staffCalls.Add(1)
		if r.Header.Get(directory.RequestIDHeader) != "" {
			u.requestIDs.Add(1)
		}
		writeJSON(w, u.staffStatus, u.staffBody)
	})
	mux.HandleFunc("GET /departments", func(w http.ResponseWriter, r *http.Request) {
		u.departmentCalls.Add(1)
		if r.Header.Get(directory.RequestIDHeader) != "" {
			u.requestIDs.Add(1)
		}
		writeJSON(w, u.departmentStatus, u.departmentBody)
	})
	return mux
}

func TestFetchEmployeeData(t *testing.T) {
	t.Parallel()

	for _, mode := range []directory.FetchMode{directory.FetchConcurrent, directory.FetchSequential} {
		t.Run("success - "+string(mode), func(t *testing.T) {
			t.Parallel()
			fake := newUpstream()
			client, appMetrics, _ := newTestClient(t, fake.handler(), directory.WithFetchMode(mode))

			profile, ok, err := client.FetchEmployeeData(t.Context(), 7)

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, models.Profile{
				StaffID:    7,
				Name:       "A",
				Phone:      "555",
				Department: "Engineering",
				Address: models.Address{
					Street: "N/A", City: "Metropolis", State: "N/A", ZIP: "N/A", Country: "N/A",
				},
			}, profile)
			assert.Equal(t, int32(1), fake.staffCalls.Load())
			assert.Equal(t, int32(1), fake.departmentCalls.Load())
			assert.Equal(t, int32(2), fake.requestIDs.Load())
			assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ProfilesJoined.WithLabelValues("present")), 0)
			assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.UpstreamRequests.WithLabelValues("get_person", "200")), 0)
		})
	}

	t.Run("success - string department id and numeric text fields", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffBody = `{"Id":"9","Name":"B","Phone":5551234,"DepartmentId":"2","Address":{"ZIP":12345}}`
		client, _, _ := newTestClient(t, fake.handler())

		profile, ok, err := client.FetchEmployeeData(t.Context(), 9)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 9, profile.StaffID)
		assert.Equal(t, "Engineering", profile.Department)
		assert.Equal(t, "5551234", profile.Phone)
		assert.Equal(t, "12345", profile.Address.ZIP)
		assert.Equal(t, directory.NotAvailable, profile.Address.City)
	})

	t.Run("absent - staff body is null", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffBody = "null"
		client, appMetrics, _ := newTestClient(t, fake.handler())

		profile, ok, err := client.FetchEmployeeData(t.Context(), 7)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, models.Profile{}, profile)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ProfilesJoined.WithLabelValues("absent")), 0)
	})

	t.Run("absent - staff body is not an object", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffBody = `"nobody"`
		client, _, _ := newTestClient(t, fake.handler())

		_, ok, err := client.FetchEmployeeData(t.Context(), 7)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error - staff read returns 404 in sequential mode", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffStatus = http.StatusNotFound
		fake.staffBody = `{"error":"person not found"}`
		client, _, _ := newTestClient(t, fake.handler(), directory.WithFetchMode(directory.FetchSequential))

		_, ok, err := client.FetchEmployeeData(t.Context(), 7)

		require.Error(t, err)
		assert.False(t, ok)
		require.ErrorIs(t, err, directory.ErrTransport)

		var transportErr *directory.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
		assert.Equal(t, "get_person", transportErr.Op)
		assert.JSONEq(t, `{"error":"person not found"}`, transportErr.Body)

		assert.Equal(t, int32(1), fake.staffCalls.Load())
		assert.Equal(t, int32(0), fake.departmentCalls.Load())
	})

	t.Run("error - staff read returns 404 in concurrent mode", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffStatus = http.StatusNotFound
		client, _, _ := newTestClient(t, fake.handler())

		_, ok, err := client.FetchEmployeeData(t.Context(), 7)

		assert.False(t, ok)
		var transportErr *directory.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	})

	t.Run("error - department read fails", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.departmentStatus = http.StatusInternalServerError
		fake.departmentBody = "boom"
		client, _, _ := newTestClient(t, fake.handler(), directory.WithFetchMode(directory.FetchSequential))

		_, _, err := client.FetchEmployeeData(t.Context(), 7)

		var transportErr *directory.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, "list_departments", transportErr.Op)
		assert.Equal(t, "boom", transportErr.Body)
		assert.ErrorContains(t, err, "status: 500")
	})

	t.Run("error - non numeric identifier", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffBody = `{"Id":"seven","Name":"A"}`
		client, _, _ := newTestClient(t, fake.handler())

		_, _, err := client.FetchEmployeeData(t.Context(), 7)

		require.ErrorIs(t, err, directory.ErrDecode)
		require.ErrorIs(t, err, models.ErrNotNumeric)
	})

	t.Run("error - malformed department table", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.departmentBody = `{"Id":1}`
		client, _, _ := newTestClient(t, fake.handler())

		_, _, err := client.FetchEmployeeData(t.Context(), 7)

		require.ErrorIs(t, err, directory.ErrDecode)
	})

	t.Run("error - empty staff body", func(t *testing.T) {
		t.Parallel()
		fake := newUpstream()
		fake.staffBody = ""
		client, _, _ := newTestClient(t, fake.handler())

		_, _, err := client.FetchEmployeeData(t.Context(), 7)

		require.ErrorIs(t, err, directory.ErrDecode)
	})
}

func TestFetch_ConcurrentFailureCancelsSibling(t *testing.T) {
	t.Parallel()

	var cancelled atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /people/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, "upstream down")
	})
	mux.HandleFunc("GET /departments", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			cancelled.Store(true)
		case <-time.After(5 * time.Second):
			writeJSON(w, http.StatusOK, departmentsBody)
		}
	})
	client, _, _ := newTestClient(t, mux)

	start := time.Now()
	staff, depts, err := client.Fetch(t.Context(), 7)

	require.Error(t, err)
	assert.Nil(t, staff)
	assert.Nil(t, depts)
	assert.Less(t, time.Since(start), 4*time.Second)

	var transportErr *directory.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.Eventually(t, cancelled.Load, 2*time.Second, 10*time.Millisecond)
}

func TestFetch_NetworkFailure(t *testing.T) {
	t.Parallel()

	client, appMetrics, srv := newTestClient(t, newUpstream().handler(), directory.WithFetchMode(directory.FetchSequential))
	srv.Close()

	_, _, err := client.Fetch(t.Context(), 7)

	require.Error(t, err)
	var transportErr *directory.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Zero(t, transportErr.StatusCode)
	require.Error(t, transportErr.Err)
	assert.False(t, errors.Is(err, directory.ErrDecode))
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.UpstreamRequests.WithLabelValues("get_person", "error")), 0)
}

func TestFetch_ContextCancelled(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, newUpstream().handler())
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := client.Fetch(ctx, 7)

	require.ErrorIs(t, err, directory.ErrTransport)
	require.ErrorIs(t, err, context.Canceled)
}
