package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierrors "github.com/voicecart/voicecart/server/internal/errors"
	"github.com/voicecart/voicecart/store"
)

type cartLineResponse struct {
	Product  *productResponse `json:"product"`
	Quantity int32            `json:"quantity"`
	Subtotal float64          `json:"subtotal"`
}

type cartResponse struct {
	Lines []*cartLineResponse `json:"lines"`
	Total float64             `json:"total"`
}

type cartAddRequest struct {
	ProductID int32 `json:"productId"`
}

type cartUpdateRequest struct {
	Quantity int32 `json:"quantity"`
}

func (s *APIV1Service) registerCartRoutes(g *echo.Group) {
	g.GET("/sessions/:session/cart", s.getCart)
	g.POST("/sessions/:session/cart", s.addCartItem)
	g.PATCH("/sessions/:session/cart/:productId", s.updateCartItem)
	g.DELETE("/sessions/:session/cart/:productId", s.removeCartItem)
	g.DELETE("/sessions/:session/cart", s.clearCart)
}

func (s *APIV1Service) getCart(c echo.Context) error {
	sessionUID := c.Param("session")
	lines, err := s.Store.CartLines(c.Request().Context(), sessionUID)
	if err != nil {
		return apiError(c, apierrors.Internal("read cart", err))
	}

	resp := &cartResponse{Lines: make([]*cartLineResponse, 0, len(lines))}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, &cartLineResponse{
			Product:  s.toProductResponse(line.Product, false),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
		resp.Total += line.Subtotal()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) addCartItem(c echo.Context) error {
	var req cartAddRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.ProductID == 0 {
		return apiError(c, apierrors.InvalidArgument("productId is required"))
	}

	ctx := c.Request().Context()
	product, err := s.Store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return apiError(c, apierrors.Internal("get product", err))
	}
	if product == nil {
		return apiError(c, apierrors.NotFound("product not found"))
	}

	if _, err := s.Store.UpsertCartItem(ctx, &store.UpsertCartItem{
		SessionUID: c.Param("session"),
		ProductID:  req.ProductID,
	}); err != nil {
		return apiError(c, apierrors.Internal("add cart item", err))
	}
	return s.getCart(c)
}

func (s *APIV1Service) updateCartItem(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return apiError(c, apierrors.InvalidArgument("invalid product id"))
	}
	var req cartUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.Quantity < 1 {
		return apiError(c, apierrors.InvalidArgument("quantity must be positive"))
	}

	if err := s.Store.UpdateCartItem(c.Request().Context(), &store.UpdateCartItem{
		SessionUID: c.Param("session"),
		ProductID:  productID,
		Quantity:   req.Quantity,
	}); err != nil {
		return apiError(c, apierrors.Internal("update cart item", err))
	}
	return s.getCart(c)
}

func (s *APIV1Service) removeCartItem(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return apiError(c, apierrors.InvalidArgument("invalid product id"))
	}
	if err := s.Store.DeleteCartItem(c.Request().Context(), &store.DeleteCartItem{
		SessionUID: c.Param("session"),
		ProductID:  &productID,
	}); err != nil {
		return apiError(c, apierrors.Internal("remove cart item", err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) clearCart(c echo.Context) error {
	if err := s.Store.DeleteCartItem(c.Request().Context(), &store.DeleteCartItem{
		SessionUID: c.Param("session"),
	}); err != nil {
		return apiError(c, apierrors.Internal("clear cart", err))
	}
	return c.NoContent(http.StatusNoContent)
}

func parseProductID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
