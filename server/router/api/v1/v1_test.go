package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/voicecart/voicecart/internal/profile"
	storetest "github.com/voicecart/voicecart/store/test"
)

func newTestAPI(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	ts := storetest.NewTestingStore(context.Background(), t)
	service := NewAPIV1Service(&profile.Profile{Mode: "dev", Driver: "sqlite"}, ts)
	t.Cleanup(service.Shutdown)

	e := echo.New()
	service.Register(e.Group("/api/v1"))
	return service, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProcessTurnEndpoint(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/assistant/turns",
		`{"sessionUid":"sess-1","text":"find headphones"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	require.Equal(t, "ASSISTANT", msg.Role)
	require.Contains(t, msg.Content, `matching "headphones"`)
	require.Equal(t, "search:headphones", msg.Action)
	require.NotEmpty(t, msg.ProductIDs)
}

func TestProcessTurnEndpointRejectsEmptyText(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/assistant/turns",
		`{"sessionUid":"sess-1","text":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/assistant/turns", `{"text":"hello"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTurnNavigationUpdatesCurrentPage(t *testing.T) {
	service, e := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/assistant/turns",
		`{"sessionUid":"sess-1","text":"go to my cart"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/cart", service.session("sess-1").Conversation().CurrentPage())

	// A page query on the new page mentions the cart.
	rec = doJSON(e, http.MethodPost, "/api/v1/assistant/turns",
		`{"sessionUid":"sess-1","text":"where am i"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	require.Contains(t, msg.Content, "You're on the Cart page.")
}

func TestListMessagesSeedsGreeting(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/assistant/sessions/sess-9/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []*messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	require.Equal(t, seedGreeting, messages[0].Content)

	// A second read returns the persisted greeting, not another seed.
	rec = doJSON(e, http.MethodGet, "/api/v1/assistant/sessions/sess-9/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
}

func TestTurnTranscriptPersisted(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/assistant/turns",
		`{"sessionUid":"sess-2","text":"thanks"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/assistant/sessions/sess-2/messages", "")
	var messages []*messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	require.Equal(t, "USER", messages[0].Role)
	require.Equal(t, "thanks", messages[0].Content)
	require.Equal(t, "ASSISTANT", messages[1].Role)
}

func TestSetPageEndpoint(t *testing.T) {
	service, e := newTestAPI(t)

	rec := doJSON(e, http.MethodPatch, "/api/v1/assistant/sessions/sess-3/page", `{"page":"/deals"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "/deals", service.session("sess-3").Conversation().CurrentPage())
}

func TestDeleteSessionEndpoint(t *testing.T) {
	service, e := newTestAPI(t)

	sess := service.session("sess-4")
	rec := doJSON(e, http.MethodDelete, "/api/v1/assistant/sessions/sess-4", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, sess.Closed())
}

func TestListProductsEndpoint(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []*productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 12)

	rec = doJSON(e, http.MethodGet, "/api/v1/products?category=Footwear", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)

	rec = doJSON(e, http.MethodGet, "/api/v1/products?discounted=true", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	for _, p := range products {
		require.NotNil(t, p.Discount)
		require.Less(t, p.EffectivePrice, p.Price)
	}
}

func TestListProductsFilter(t *testing.T) {
	_, e := newTestAPI(t)

	filter := url.QueryEscape("effective_price < 50.0 && rating >= 4.0")
	rec := doJSON(e, http.MethodGet, "/api/v1/products?filter="+filter, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []*productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.NotEmpty(t, products)
	for _, p := range products {
		require.Less(t, p.EffectivePrice, 50.0)
		require.GreaterOrEqual(t, p.Rating, 4.0)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/products?filter=not%20a%20filter", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductEndpoint(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Wireless Headphones", p.Name)
	require.NotEmpty(t, p.DescriptionHTML)

	rec = doJSON(e, http.MethodGet, "/api/v1/products/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartEndpoints(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/sessions/sess-5/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cart cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Lines)

	// Add the same product twice; the line upserts.
	for i := 0; i < 2; i++ {
		rec = doJSON(e, http.MethodPost, "/api/v1/sessions/sess-5/cart", `{"productId":1}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int32(2), cart.Lines[0].Quantity)

	rec = doJSON(e, http.MethodPatch, "/api/v1/sessions/sess-5/cart/1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Equal(t, int32(5), cart.Lines[0].Quantity)

	rec = doJSON(e, http.MethodDelete, "/api/v1/sessions/sess-5/cart/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/sessions/sess-5/cart", `{"productId":999}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartClearEndpoint(t *testing.T) {
	_, e := newTestAPI(t)

	for _, id := range []int32{1, 2, 3} {
		rec := doJSON(e, http.MethodPost, "/api/v1/sessions/sess-6/cart", fmt.Sprintf(`{"productId":%d}`, id))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(e, http.MethodDelete, "/api/v1/sessions/sess-6/cart", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/sessions/sess-6/cart", "")
	var cart cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Lines)
	require.Zero(t, cart.Total)
}
