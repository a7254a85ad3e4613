package v1

import (
	"net/http"
	"strconv"

	"github.com/google/cel-go/cel"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apierrors "github.com/voicecart/voicecart/server/internal/errors"
	"github.com/voicecart/voicecart/store"
)

type productResponse struct {
	ID              int32   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DescriptionHTML string  `json:"descriptionHtml,omitempty"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Discount        *int32  `json:"discount,omitempty"`
	EffectivePrice  float64 `json:"effectivePrice"`
	Rating          float64 `json:"rating"`
	Reviews         int32   `json:"reviews"`
	Stock           int32   `json:"stock"`
	ImageURL        string  `json:"imageUrl,omitempty"`
}

func (s *APIV1Service) registerProductRoutes(g *echo.Group) {
	g.GET("/products", s.listProducts)
	g.GET("/products/:id", s.getProduct)
}

// listProducts lists the catalog. Supports simple query parameters
// (category, q, discounted) and a CEL filter expression over product
// fields, e.g. `effective_price < 100.0 && rating >= 4.0`.
func (s *APIV1Service) listProducts(c echo.Context) error {
	find := &store.FindProduct{}
	if category := c.QueryParam("category"); category != "" {
		find.Category = &category
	}
	if q := c.QueryParam("q"); q != "" {
		find.Term = &q
	}
	if discounted := c.QueryParam("discounted"); discounted == "true" {
		t := true
		find.Discounted = &t
	}

	products, err := s.Store.ListProducts(c.Request().Context(), find)
	if err != nil {
		return apiError(c, apierrors.Internal("list products", err))
	}

	if filter := c.QueryParam("filter"); filter != "" {
		products, err = filterProducts(products, filter)
		if err != nil {
			return apiError(c, apierrors.InvalidArgument(err.Error()))
		}
	}

	resp := make([]*productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, s.toProductResponse(p, false))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return apiError(c, apierrors.InvalidArgument("invalid product id"))
	}
	product, err := s.Store.GetProduct(c.Request().Context(), int32(id))
	if err != nil {
		return apiError(c, apierrors.Internal("get product", err))
	}
	if product == nil {
		return apiError(c, apierrors.NotFound("product not found"))
	}
	return c.JSON(http.StatusOK, s.toProductResponse(product, true))
}

func (s *APIV1Service) toProductResponse(p *store.Product, renderDescription bool) *productResponse {
	resp := &productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Price:          p.Price,
		Discount:       p.Discount,
		EffectivePrice: p.EffectivePrice(),
		Rating:         p.Rating,
		Reviews:        p.Reviews,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
	}
	if renderDescription {
		if html, err := s.MarkdownService.Render(p.Description); err == nil {
			resp.DescriptionHTML = html
		}
	}
	return resp
}

// productFilterEnv declares the variables a filter expression may use.
func productFilterEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("effective_price", cel.DoubleType),
		cel.Variable("discount", cel.IntType),
		cel.Variable("rating", cel.DoubleType),
		cel.Variable("reviews", cel.IntType),
		cel.Variable("stock", cel.IntType),
	)
}

// filterProducts keeps the products for which the CEL expression
// evaluates to true.
func filterProducts(products []*store.Product, filter string) ([]*store.Product, error) {
	env, err := productFilterEnv()
	if err != nil {
		return nil, errors.Wrap(err, "create filter environment")
	}
	ast, issues := env.Compile(filter)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "invalid filter")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "compile filter")
	}

	var kept []*store.Product
	for _, p := range products {
		discount := int64(0)
		if p.Discount != nil {
			discount = int64(*p.Discount)
		}
		out, _, err := program.Eval(map[string]any{
			"name":            p.Name,
			"category":        p.Category,
			"price":           p.Price,
			"effective_price": p.EffectivePrice(),
			"discount":        discount,
			"rating":          p.Rating,
			"reviews":         int64(p.Reviews),
			"stock":           int64(p.Stock),
		})
		if err != nil {
			return nil, errors.Wrap(err, "evaluate filter")
		}
		if matched, ok := out.Value().(bool); ok && matched {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
