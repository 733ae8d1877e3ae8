package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/labelschema/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// fakeEndpoint records posted forms and answers with a scripted reply
type fakeEndpoint struct {
	mu      sync.Mutex
	actions []string
	params  []string
	headers []http.Header
	calls   atomic.Int32
	handler func(c *gin.Context, call int)
}

func newFakeEndpoint(t *testing.T, handler func(c *gin.Context, call int)) (*fakeEndpoint, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fakeEndpoint{handler: handler}
	r := gin.New()
	r.POST("/update", func(c *gin.Context) {
		call := int(f.calls.Add(1))
		f.mu.Lock()
		f.actions = append(f.actions, c.PostForm("action"))
		f.params = append(f.params, c.PostForm("params"))
		f.headers = append(f.headers, c.Request.Header.Clone())
		f.mu.Unlock()
		f.handler(c, call)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(srv.URL+"/update", opts...)
	require.NoError(t, err)
	return c
}

// ============================================================================
// Send
// ============================================================================

func TestSend_PostsFormFields(t *testing.T) {
	t.Parallel()

	f, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "id_mapping": gin.H{"abc": 5}})
	})
	client := newTestClient(t, srv, WithCSRFToken("tok123"))

	params := map[string]any{"colour_schemes": []any{map[string]any{"id": "abc", "name": "natural"}}}
	resp, err := client.Send(context.Background(), ActionUpdateColourSchemes, params)
	require.NoError(t, err)

	require.Len(t, f.actions, 1)
	assert.Equal(t, "update_colour_schemes", f.actions[0])
	assert.JSONEq(t, `{"colour_schemes":[{"id":"abc","name":"natural"}]}`, f.params[0])
	assert.Equal(t, "tok123", f.headers[0].Get("X-CSRFToken"))
	assert.Equal(t, "application/x-www-form-urlencoded", f.headers[0].Get("Content-Type"))

	assert.True(t, resp.Succeeded())
	assert.Equal(t, models.AssignedID(5), resp.IDMapping["abc"])
}

func TestSend_DecodesGroupMappings(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.JSON(http.StatusOK, gin.H{
			"status":                 "success",
			"group_id_mapping":       gin.H{"g-1": 11},
			"label_class_id_mapping": gin.H{"c-1": 101, "c-2": 102},
		})
	})
	client := newTestClient(t, srv)

	resp, err := client.Send(context.Background(), ActionUpdateLabelClassGroups, map[string]any{"groups": []any{}})
	require.NoError(t, err)
	assert.Equal(t, models.AssignedID(11), resp.GroupIDMapping["g-1"])
	assert.Len(t, resp.LabelClassIDMapping, 2)
}

func TestSend_NonSuccessStatusIsRejected(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
	})
	client := newTestClient(t, srv)

	resp, err := client.Send(context.Background(), ActionUpdateColourSchemes, struct{}{})
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	require.NotNil(t, resp)
	assert.Equal(t, "failed", resp.Status)

	var ue *UpdateError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, ActionUpdateColourSchemes, ue.Action)
	assert.False(t, ue.Retryable())
}

func TestSend_HTTPErrorStatus(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.String(http.StatusForbidden, "CSRF verification failed")
	})
	client := newTestClient(t, srv)

	_, err := client.Send(context.Background(), ActionUpdateColourSchemes, struct{}{})
	ue := Classify(err)
	assert.Equal(t, ErrHTTPStatus, ue.Code)
	assert.Equal(t, http.StatusForbidden, ue.StatusCode)
	assert.Contains(t, ue.Error(), "csrf-token")
	assert.False(t, ue.Retryable())
}

func TestSend_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.String(http.StatusOK, "<html>login</html>")
	})
	client := newTestClient(t, srv)

	_, err := client.Send(context.Background(), ActionUpdateLabelClassGroups, struct{}{})
	assert.Equal(t, ErrDecode, Classify(err).Code)
}

func TestSend_UnencodableParamsAreNotRetried(t *testing.T) {
	t.Parallel()

	f, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	client := newTestClient(t, srv)

	_, err := SendWithRetry(context.Background(), client, ActionUpdateColourSchemes, map[string]any{"bad": func() {}}, 3, time.Millisecond)
	ue := Classify(err)
	assert.Equal(t, ErrEncode, ue.Code)
	assert.Equal(t, ActionUpdateColourSchemes, ue.Action)
	assert.False(t, ue.Retryable())
	assert.Equal(t, int32(0), f.calls.Load(), "nothing is sent")
}

func TestSend_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(url + "/update")
	require.NoError(t, err)

	_, err = client.Send(context.Background(), ActionUpdateColourSchemes, struct{}{})
	ue := Classify(err)
	assert.Equal(t, ErrNetwork, ue.Code)
	assert.True(t, ue.Retryable())
}

func TestSend_Timeout(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		time.Sleep(200 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	client := newTestClient(t, srv, WithTimeout(20*time.Millisecond))

	_, err := client.Send(context.Background(), ActionUpdateColourSchemes, struct{}{})
	ue := Classify(err)
	assert.Equal(t, ErrNetwork, ue.Code)
	assert.Contains(t, ue.Message, "timed out")
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("ftp://example.com/update")
	assert.Error(t, err)

	_, err = NewClient("not a url at all")
	assert.Error(t, err)
}

// ============================================================================
// SendWithRetry
// ============================================================================

func TestSendWithRetry_RecoversFromServerError(t *testing.T) {
	t.Parallel()

	f, srv := newFakeEndpoint(t, func(c *gin.Context, call int) {
		if call < 3 {
			c.Status(http.StatusBadGateway)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	client := newTestClient(t, srv)

	resp, err := SendWithRetry(context.Background(), client, ActionUpdateColourSchemes, struct{}{}, 3, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestSendWithRetry_DoesNotRetryRejection(t *testing.T) {
	t.Parallel()

	f, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
	})
	client := newTestClient(t, srv)

	_, err := SendWithRetry(context.Background(), client, ActionUpdateColourSchemes, struct{}{}, 5, time.Millisecond)
	assert.True(t, IsRejected(err))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestSendWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	f, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.Status(http.StatusInternalServerError)
	})
	client := newTestClient(t, srv)

	_, err := SendWithRetry(context.Background(), client, ActionUpdateLabelClassGroups, struct{}{}, 3, time.Millisecond)
	assert.Equal(t, ErrHTTPStatus, Classify(err).Code)
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	t.Parallel()

	_, srv := newFakeEndpoint(t, func(c *gin.Context, _ int) {
		c.Status(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := SendWithRetry(ctx, client, ActionUpdateColourSchemes, struct{}{}, 10, 50*time.Millisecond)
	assert.Equal(t, ErrCancelled, Classify(err).Code)
	assert.Less(t, time.Since(start), time.Second)
}

// ============================================================================
// Classify
// ============================================================================

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Classify(nil))
	assert.Equal(t, ErrCancelled, Classify(context.Canceled).Code)
	assert.Equal(t, ErrNetwork, Classify(context.DeadlineExceeded).Code)

	original := &UpdateError{Code: ErrRejected, Message: "nope"}
	assert.Same(t, original, Classify(original))

	wrapped := Classify(errors.New("boom"))
	assert.Equal(t, ErrEncode, wrapped.Code)
	assert.False(t, wrapped.Retryable())
	assert.Equal(t, "rejected", ErrRejected.String())
	assert.Equal(t, "encode", ErrEncode.String())
}

func TestHintForStatus(t *testing.T) {
	t.Parallel()

	assert.Contains(t, hintForStatus(http.StatusForbidden), "--csrf-token")
	assert.Equal(t, "Check --update-url", hintForStatus(http.StatusNotFound))
	assert.Empty(t, hintForStatus(http.StatusTeapot))

	hint := hintForStatus(http.StatusInternalServerError)
	assert.Contains(t, hint, "null id")
	assert.NotContains(t, hint, "retried")
}

func TestResponse_UnmarshalMissingMappings(t *testing.T) {
	t.Parallel()

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success"}`), &resp))
	assert.True(t, resp.Succeeded())
	assert.Nil(t, resp.IDMapping)
}
