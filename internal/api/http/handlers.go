package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/localconnect/catalog-manager/internal/auth/jwt"
	"github.com/localconnect/catalog-manager/internal/bucket"
	"github.com/localconnect/catalog-manager/internal/dto"
	"github.com/localconnect/catalog-manager/internal/entity"
	"github.com/localconnect/catalog-manager/internal/form"
	"github.com/localconnect/catalog-manager/internal/middleware"
)

// maxBodyBytes bounds product bodies, base64 image included.
const maxBodyBytes = 8 << 20

type ctxKey int

const businessKey ctxKey = iota

func businessFromContext(ctx context.Context) *entity.Business {
	b, _ := ctx.Value(businessKey).(*entity.Business)
	return b
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(middleware.GetClientIP(r.Context())) {
			w.Header().Set("Retry-After", "60")
			_ = render.Render(w, r, ErrTooMany)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// businessScope resolves the verified token to the caller's business.
func (s *Server) businessScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			_ = render.Render(w, r, ErrUnauthorized)
			return
		}
		acc, err := jwt.AccountFromClaims(claims)
		if err != nil {
			_ = render.Render(w, r, ErrUnauthorized)
			return
		}
		b, err := s.svc.BusinessForAccount(r.Context(), acc)
		if err != nil {
			renderError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), businessKey, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseProductQuery(r *http.Request) (entity.ProductQuery, error) {
	v := r.URL.Query()
	q := entity.ProductQuery{
		Search: v.Get("search"),
		Page:   1,
	}
	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("page must be an integer")
		}
		q.Page = page
	}
	if raw := v.Get("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("category must be an integer")
		}
		q.CategoryId = id
	}
	if raw := v.Get("on_sale"); raw != "" {
		onSale, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("on_sale must be a boolean")
		}
		q.OnSale = onSale
	}
	sort, err := entity.ParseProductSort(v.Get("sort"))
	if err != nil {
		return q, err
	}
	q.Sort = sort
	return q, nil
}

func productIdParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("product id must be a positive integer")
	}
	return id, nil
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (*entity.ProductBody, *entity.ProductImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req := &dto.ProductRequest{}
	if err := render.DecodeJSON(r.Body, req); err != nil {
		return nil, nil, fmt.Errorf("can't decode product: %w", err)
	}
	if err := (&form.ProductRequest{ProductRequest: req}).Validate(); err != nil {
		return nil, nil, err
	}
	if req.Image == "" {
		return req.Body(), nil, nil
	}
	img, err := bucket.DecodeB64Image(req.Image)
	if err != nil {
		return nil, nil, err
	}
	return req.Body(), &entity.ProductImage{Data: img.Content, ContentType: img.ContentType}, nil
}

func (s *Server) categoryTree(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.svc.CategoryTree(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertCategoryTree(nodes))
}

func (s *Server) browseProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	page, err := s.svc.BrowseProducts(r.Context(), q)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertProductPage(page))
}

// deals lists discounted products, deepest discount first.
func (s *Server) deals(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	q.OnSale = true
	q.Sort = entity.SortDiscount
	page, err := s.svc.BrowseProducts(r.Context(), q)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertProductPage(page))
}

func (s *Server) featuredBusinesses(w http.ResponseWriter, r *http.Request) {
	bb, err := s.svc.FeaturedBusinesses(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertFeaturedBusinesses(bb))
}

func (s *Server) listBusinessProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	b := businessFromContext(r.Context())
	page, err := s.svc.ListBusinessProducts(r.Context(), b.Id, q)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertProductPage(page))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIdParam(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	b := businessFromContext(r.Context())
	prd, err := s.svc.GetProduct(r.Context(), b.Id, id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, dto.ConvertProduct(prd))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	body, img, err := decodeProductRequest(w, r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	b := businessFromContext(r.Context())
	id, err := s.svc.CreateProduct(r.Context(), b.Id, body, img)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, dto.CreatedProduct{Id: id})
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIdParam(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	body, img, err := decodeProductRequest(w, r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	b := businessFromContext(r.Context())
	if err := s.svc.UpdateProduct(r.Context(), b.Id, id, body, img); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIdParam(r)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	b := businessFromContext(r.Context())
	if err := s.svc.DeleteProduct(r.Context(), b.Id, id); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
