package transport

import "marketplace/internal/domain"

const (
	adminDashboardPath  = "/dashboard/admin"
	sellerDashboardPath = "/dashboard/seller"
	sellerStoresPath    = "/dashboard/seller/stores"
	newSellerStorePath  = "/dashboard/seller/stores/new"
	userHomePath        = "/"
)

// SidebarLink is one entry of the dashboard navigation
type SidebarLink struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Link  string `json:"link"`
}

var adminSidebarOptions = []SidebarLink{
	{Label: "Dashboard", Icon: "dashboard", Link: adminDashboardPath},
	{Label: "Categories", Icon: "categories", Link: adminDashboardPath + "/categories"},
	{Label: "Sub-Categories", Icon: "categories", Link: adminDashboardPath + "/subCategories"},
	{Label: "Offer Tags", Icon: "offer", Link: adminDashboardPath + "/offerTags"},
}

var sellerHomeOptions = []SidebarLink{
	{Label: "Stores", Icon: "store", Link: sellerStoresPath},
	{Label: "New Store", Icon: "plus", Link: newSellerStorePath},
}

// sellerSidebarOptions builds the store-scoped seller menu
func sellerSidebarOptions(storeURL string) []SidebarLink {
	base := sellerStoresPath + "/" + storeURL
	return []SidebarLink{
		{Label: "Dashboard", Icon: "dashboard", Link: base},
		{Label: "Products", Icon: "products", Link: base + "/products"},
		{Label: "New Product", Icon: "plus", Link: base + "/products/new"},
		{Label: "Settings", Icon: "settings", Link: base + "/settings"},
	}
}

// homeFor is the landing page of each role
func homeFor(session *domain.Session) string {
	switch {
	case session.HasRole(domain.RoleAdmin):
		return adminDashboardPath
	case session.HasRole(domain.RoleSeller):
		return sellerDashboardPath
	default:
		return userHomePath
	}
}
