package transport

import (
	"context"
	"errors"
	"net/http"

	"marketplace/internal/domain"
	"marketplace/internal/form"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Shell is the dashboard frame every page renders inside
type Shell struct {
	User  *UserProfile  `json:"user,omitempty"`
	Menu  []SidebarLink `json:"menu"`
	Store *domain.Store `json:"store,omitempty"`
}

// Page is the view model of one dashboard page
type Page struct {
	Shell Shell       `json:"shell"`
	Page  string      `json:"page"`
	Data  interface{} `json:"data"`
}

// DataTable is the view model of a searchable list page
type DataTable struct {
	Rows              interface{} `json:"rows"`
	FilterValue       string      `json:"filterValue"`
	SearchPlaceholder string      `json:"searchPlaceholder"`
	ActionButtonText  string      `json:"actionButtonText"`
	NewTabLink        string      `json:"newTabLink"`
	Form              interface{} `json:"form,omitempty"`
}

// AdminOverview summarizes the catalog on the admin landing page
type AdminOverview struct {
	Categories    int `json:"categories"`
	SubCategories int `json:"subCategories"`
	OfferTags     int `json:"offerTags"`
}

// DashboardDeps groups the services the dashboard pages read from
type DashboardDeps struct {
	Users         service.UserService
	Categories    service.CategoryService
	SubCategories service.SubCategoryService
	OfferTags     service.OfferTagService
	Stores        service.StoreService
	Products      service.ProductService
}

// DashboardHandler serves the role-gated dashboard pages
type DashboardHandler struct {
	deps   DashboardDeps
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(deps DashboardDeps, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: logger}
}

// RegisterRoutes registers the dashboard pages. Callers without the
// section's role are redirected home.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Landing)

	r.Route("/dashboard/admin", func(r chi.Router) {
		r.Use(middleware.RedirectUnlessRole(domain.RoleAdmin, userHomePath, h.logger))
		r.Get("/", h.AdminOverview)
		r.Get("/categories", h.AdminCategories)
		r.Get("/categories/new", h.AdminNewCategory)
		r.Get("/subCategories", h.AdminSubCategories)
		r.Get("/subCategories/new", h.AdminNewSubCategory)
		r.Get("/offerTags", h.AdminOfferTags)
		r.Get("/offerTags/new", h.AdminNewOfferTag)
	})

	r.Route("/dashboard/seller", func(r chi.Router) {
		r.Use(middleware.RedirectUnlessRole(domain.RoleSeller, userHomePath, h.logger))
		r.Get("/", redirectTo(sellerStoresPath))
		r.Get("/stores", h.SellerStores)
		r.Get("/stores/new", h.SellerNewStore)
		r.Route("/stores/{storeUrl}", func(r chi.Router) {
			r.Get("/", h.SellerStore)
			r.Get("/settings", h.SellerStoreSettings)
			r.Get("/products", h.SellerProducts)
			r.Get("/products/new", h.SellerNewProduct)
			r.Get("/products/{productId}", h.SellerEditProduct)
		})
	})
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Landing sends each role to its own dashboard
func (h *DashboardHandler) Landing(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, homeFor(middleware.SessionFromContext(r.Context())), http.StatusFound)
}

func (h *DashboardHandler) shell(ctx context.Context, menu []SidebarLink) Shell {
	shell := Shell{Menu: menu}

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return shell
	}

	user, err := h.deps.Users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.Warn("Failed to load sidebar user", zap.String("user_id", userID.String()), zap.Error(err))
		return shell
	}

	profile := profileOf(user)
	shell.User = &profile
	return shell
}

func (h *DashboardHandler) render(w http.ResponseWriter, shell Shell, page string, data interface{}) {
	middleware.RespondWithJSON(w, http.StatusOK, Page{Shell: shell, Page: page, Data: data})
}

// AdminOverview counts the catalog entities concurrently
func (h *DashboardHandler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	var overview AdminOverview

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		categories, err := h.deps.Categories.List(ctx, "")
		overview.Categories = len(categories)
		return err
	})
	g.Go(func() error {
		subCategories, err := h.deps.SubCategories.List(ctx, "")
		overview.SubCategories = len(subCategories)
		return err
	})
	g.Go(func() error {
		offerTags, err := h.deps.OfferTags.List(ctx)
		overview.OfferTags = len(offerTags)
		return err
	})
	if err := g.Wait(); err != nil {
		respondServiceError(w, h.logger, err, "load dashboard")
		return
	}

	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/overview", overview)
}

func (h *DashboardHandler) AdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.deps.Categories.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, h.logger, err, "load categories")
		return
	}

	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/categories", DataTable{
		Rows:              categories,
		FilterValue:       "name",
		SearchPlaceholder: "Search category name...",
		ActionButtonText:  "Create category",
		NewTabLink:        adminDashboardPath + "/categories/new",
		Form:              service.CategoryInput{},
	})
}

func (h *DashboardHandler) AdminNewCategory(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/categories/new", service.CategoryInput{})
}

// subCategoryForm is the model of the subcategory form: the category select options
type subCategoryForm struct {
	service.SubCategoryInput
	Categories []*domain.Category `json:"categories"`
}

// AdminSubCategories loads the subcategory rows and the category options concurrently
func (h *DashboardHandler) AdminSubCategories(w http.ResponseWriter, r *http.Request) {
	var (
		subCategories []*domain.SubCategory
		categories    []*domain.Category
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		subCategories, err = h.deps.SubCategories.List(ctx, r.URL.Query().Get("search"))
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = h.deps.Categories.List(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		respondServiceError(w, h.logger, err, "load subcategories")
		return
	}

	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/subCategories", DataTable{
		Rows:              subCategories,
		FilterValue:       "name",
		SearchPlaceholder: "Search subCategory name...",
		ActionButtonText:  "Create Sub Category",
		NewTabLink:        adminDashboardPath + "/subCategories/new",
		Form:              subCategoryForm{Categories: categories},
	})
}

func (h *DashboardHandler) AdminNewSubCategory(w http.ResponseWriter, r *http.Request) {
	categories, err := h.deps.Categories.List(r.Context(), "")
	if err != nil {
		respondServiceError(w, h.logger, err, "load categories")
		return
	}

	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/subCategories/new", subCategoryForm{Categories: categories})
}

func (h *DashboardHandler) AdminOfferTags(w http.ResponseWriter, r *http.Request) {
	offerTags, err := h.deps.OfferTags.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "load offer tags")
		return
	}

	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/offerTags", DataTable{
		Rows:              offerTags,
		FilterValue:       "name",
		SearchPlaceholder: "Search offer tag name...",
		ActionButtonText:  "Create offer tag",
		NewTabLink:        adminDashboardPath + "/offerTags/new",
		Form:              service.OfferTagInput{},
	})
}

func (h *DashboardHandler) AdminNewOfferTag(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.shell(r.Context(), adminSidebarOptions), "admin/offerTags/new", service.OfferTagInput{})
}

// SellerStores redirects to the first store, or to store creation when the seller has none
func (h *DashboardHandler) SellerStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.deps.Stores.ListMine(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, h.logger, err, "load stores")
		return
	}

	if len(stores) == 0 {
		http.Redirect(w, r, newSellerStorePath, http.StatusFound)
		return
	}
	http.Redirect(w, r, sellerStoresPath+"/"+stores[0].URL, http.StatusFound)
}

func (h *DashboardHandler) SellerNewStore(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.shell(r.Context(), sellerHomeOptions), "seller/stores/new", service.StoreInput{})
}

// ownedStore loads the store of the page. A store the caller does not own
// redirects back to the store list and reports false.
func (h *DashboardHandler) ownedStore(w http.ResponseWriter, r *http.Request) (*domain.Store, bool) {
	store, err := h.deps.Stores.GetMine(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "storeUrl"))
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			http.Redirect(w, r, sellerStoresPath, http.StatusFound)
			return nil, false
		}
		respondServiceError(w, h.logger, err, "load store")
		return nil, false
	}
	return store, true
}

func (h *DashboardHandler) storeShell(ctx context.Context, store *domain.Store) Shell {
	shell := h.shell(ctx, sellerSidebarOptions(store.URL))
	shell.Store = store
	return shell
}

func (h *DashboardHandler) SellerStore(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}
	h.render(w, h.storeShell(r.Context(), store), "seller/store", store)
}

func (h *DashboardHandler) SellerStoreSettings(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	h.render(w, h.storeShell(r.Context(), store), "seller/store/settings", service.StoreInput{
		ID:          store.ID,
		Name:        store.Name,
		URL:         store.URL,
		Description: store.Description,
		Email:       store.Email,
		Phone:       store.Phone,
		Logo:        store.Logo,
		Cover:       store.Cover,
		Featured:    store.Featured,
	})
}

func (h *DashboardHandler) SellerProducts(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	products, err := h.deps.Products.ListByStore(r.Context(), middleware.SessionFromContext(r.Context()), store.URL, r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, h.logger, err, "load products")
		return
	}

	h.render(w, h.storeShell(r.Context(), store), "seller/store/products", DataTable{
		Rows:              products,
		FilterValue:       "name",
		SearchPlaceholder: "Search product name...",
		ActionButtonText:  "Create product",
		NewTabLink:        sellerStoresPath + "/" + store.URL + "/products/new",
	})
}

// productFormPage is the model of the product form page
type productFormPage struct {
	Options *service.ProductFormOptions `json:"options"`
	Draft   form.View                   `json:"draft"`
}

// SellerNewProduct renders an empty product form with all categories
func (h *DashboardHandler) SellerNewProduct(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	options, err := h.deps.Products.FormOptions(r.Context(), middleware.SessionFromContext(r.Context()), store.URL, uuid.Nil)
	if err != nil {
		respondServiceError(w, h.logger, err, "load product form")
		return
	}

	h.render(w, h.storeShell(r.Context(), store), "seller/store/products/new", productFormPage{
		Options: options,
		Draft:   form.NewProductDraft().View(),
	})
}

// SellerEditProduct opens the form for a product of the store. With
// ?variantId= the variant is edited, otherwise a new variant is drafted.
func (h *DashboardHandler) SellerEditProduct(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		http.Redirect(w, r, sellerStoresPath+"/"+store.URL+"/products", http.StatusFound)
		return
	}

	product, err := h.deps.Products.Get(r.Context(), productID)
	if err != nil || product.StoreID != store.ID {
		if err == nil || errors.Is(err, repository.ErrProductNotFound) {
			http.Redirect(w, r, sellerStoresPath+"/"+store.URL+"/products", http.StatusFound)
			return
		}
		respondServiceError(w, h.logger, err, "load product")
		return
	}

	var variant *domain.ProductVariant
	if raw := r.URL.Query().Get("variantId"); raw != "" {
		variantID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid variantId")
			return
		}
		for _, v := range product.Variants {
			if v.ID == variantID {
				variant = v
				break
			}
		}
		if variant == nil {
			respondServiceError(w, h.logger, repository.ErrVariantNotFound, "load variant")
			return
		}
	}

	options, err := h.deps.Products.FormOptions(r.Context(), middleware.SessionFromContext(r.Context()), store.URL, product.CategoryID)
	if err != nil {
		respondServiceError(w, h.logger, err, "load product form")
		return
	}

	draft := form.DraftFromVariant(product, variant)
	draft.SelectCategory(product.CategoryID, options.SubCategories)

	h.render(w, h.storeShell(r.Context(), store), "seller/store/products/edit", productFormPage{
		Options: options,
		Draft:   draft.View(),
	})
}
